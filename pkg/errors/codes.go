package errors

import "net/http"

// ErrorCode identifies a specific failure category.  Codes are stable strings
// so they can be returned in API responses and used as metric labels.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_003"
	ErrCodeConflict        ErrorCode = "COMMON_004"
	ErrCodeValidation      ErrorCode = "COMMON_005"
	ErrCodeSerialization   ErrorCode = "COMMON_006"
	ErrCodeCacheError      ErrorCode = "COMMON_007"
	ErrCodeExternalService ErrorCode = "COMMON_008"
	ErrCodeUnknown         ErrorCode = "COMMON_000"
	CodeOK                 ErrorCode = "OK"
)

// Dataset module error codes.
const (
	// ErrCodeDatasetMissingColumns is returned when an input table lacks one
	// or more of the nine required columns.
	ErrCodeDatasetMissingColumns ErrorCode = "DATA_001"

	// ErrCodeDatasetFileNotFound is returned when a requested local dataset
	// path does not exist.
	ErrCodeDatasetFileNotFound ErrorCode = "DATA_002"

	// ErrCodeDatasetParseFailed is returned when the CSV structure itself is
	// malformed (unreadable header, ragged rows).  Bad numeric cells are NOT
	// an error; they degrade to missing values.
	ErrCodeDatasetParseFailed ErrorCode = "DATA_003"

	// ErrCodeDatasetNotFound is returned when a dataset session ID does not
	// resolve to a loaded dataset.
	ErrCodeDatasetNotFound ErrorCode = "DATA_004"

	// ErrCodeDatasetEmpty is returned when a loaded table contains no rows.
	ErrCodeDatasetEmpty ErrorCode = "DATA_005"
)

// ChEMBL fetch error codes.
const (
	// ErrCodeChemblTargetNotFound is a per-target skip condition, never fatal
	// on its own.
	ErrCodeChemblTargetNotFound ErrorCode = "CHEMBL_001"

	// ErrCodeChemblNoActivities means a resolved target has no IC50 records.
	ErrCodeChemblNoActivities ErrorCode = "CHEMBL_002"

	// ErrCodeChemblRequestFailed covers transport and decode failures against
	// the remote compound database.
	ErrCodeChemblRequestFailed ErrorCode = "CHEMBL_003"

	// ErrCodeChemblNoData means no target in the whole run produced any rows;
	// this is the only fatal fetch outcome.
	ErrCodeChemblNoData ErrorCode = "CHEMBL_004"
)

// httpStatusByCode maps error codes to HTTP response status codes.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeSerialization:   http.StatusInternalServerError,
	ErrCodeCacheError:      http.StatusInternalServerError,
	ErrCodeExternalService: http.StatusBadGateway,

	ErrCodeDatasetMissingColumns: http.StatusUnprocessableEntity,
	ErrCodeDatasetFileNotFound:   http.StatusNotFound,
	ErrCodeDatasetParseFailed:    http.StatusUnprocessableEntity,
	ErrCodeDatasetNotFound:       http.StatusNotFound,
	ErrCodeDatasetEmpty:          http.StatusUnprocessableEntity,

	ErrCodeChemblTargetNotFound: http.StatusNotFound,
	ErrCodeChemblNoActivities:   http.StatusNotFound,
	ErrCodeChemblRequestFailed:  http.StatusBadGateway,
	ErrCodeChemblNoData:         http.StatusBadGateway,
}

// HTTPStatus returns the HTTP status code associated with c, defaulting to
// 500 for unmapped codes.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := httpStatusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}
