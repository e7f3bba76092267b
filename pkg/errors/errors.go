package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeUnknownBeverage    Code = "UNKNOWN_BEVERAGE"
	CodeDuplicateName      Code = "DUPLICATE_NAME"
	CodeStockDepleted      Code = "STOCK_DEPLETED"
	CodeInsufficientStock  Code = "INSUFFICIENT_STOCK"
	CodePriceNotConfigured Code = "PRICE_NOT_CONFIGURED"
	CodeInvalidTransition  Code = "INVALID_TAB_TRANSITION"
	CodeTabHasActiveSales  Code = "TAB_HAS_ACTIVE_SALES"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
	CodeInternal           Code = "INTERNAL_ERROR"
)

type Metadata struct {
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Retryable:      false,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		Retryable:      false,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeConflict: {
		Retryable:      true,
		PublicMessage:  "conflict detected",
		DetailsAllowed: false,
	},
	CodeUnknownBeverage: {
		Retryable:      false,
		PublicMessage:  "beverage is not registered",
		DetailsAllowed: true,
	},
	CodeDuplicateName: {
		Retryable:      false,
		PublicMessage:  "name already in use",
		DetailsAllowed: true,
	},
	CodeStockDepleted: {
		Retryable:      false,
		PublicMessage:  "stock depleted",
		DetailsAllowed: true,
	},
	CodeInsufficientStock: {
		Retryable:      false,
		PublicMessage:  "insufficient stock",
		DetailsAllowed: true,
	},
	CodePriceNotConfigured: {
		Retryable:      false,
		PublicMessage:  "price not configured",
		DetailsAllowed: true,
	},
	CodeInvalidTransition: {
		Retryable:      false,
		PublicMessage:  "tab state transition disallowed",
		DetailsAllowed: true,
	},
	CodeTabHasActiveSales: {
		Retryable:      false,
		PublicMessage:  "tab still holds unsettled sales",
		DetailsAllowed: true,
	},
	CodeStorageUnavailable: {
		Retryable:      true,
		PublicMessage:  "storage unavailable",
		DetailsAllowed: true,
	},
	CodeInternal: {
		Retryable:      true,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given typed code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
