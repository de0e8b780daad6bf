package domain

import "strings"

// Form identifies an input schema. Messages differ per form.
type Form string

const (
	FormLogin        Form = "login"
	FormRegistration Form = "registration"
	FormUserUpdate   Form = "user_update"
	FormProduct      Form = "product"
	FormCartItem     Form = "cart_item"
)

// FormField names an input as the client submits it.
type FormField string

const (
	FieldUsername      FormField = "username"
	FieldEmail         FormField = "email"
	FieldPassword      FormField = "password"
	FieldRetryPassword FormField = "retry_password"
	FieldAvatarFile    FormField = "file"
	FieldAvatar        FormField = "avatar"
	FieldRole          FormField = "role"
	FieldTitle         FormField = "title"
	FieldPrice         FormField = "price"
	FieldDescription   FormField = "description"
	FieldCategoryID    FormField = "category_id"
	FieldImages        FormField = "images"
	FieldProductID     FormField = "product_id"
	FieldQuantity      FormField = "quantity"
)

// FieldErrorKind classifies why a field was rejected.
type FieldErrorKind string

const (
	KindRequired      FieldErrorKind = "required"
	KindInvalidFormat FieldErrorKind = "invalid_format"
	KindTooShort      FieldErrorKind = "too_short"
	KindTooLarge      FieldErrorKind = "too_large"
	KindOutOfRange    FieldErrorKind = "out_of_range"
	KindMismatch      FieldErrorKind = "mismatch"
	KindNotFound      FieldErrorKind = "not_found"
	KindWrongPassword FieldErrorKind = "wrong_password"
	KindUnavailable   FieldErrorKind = "unavailable"
	KindInvalid       FieldErrorKind = "invalid"
)

// FieldError is a validation failure shown inline next to one input.
type FieldError struct {
	Field   FormField      `json:"field"`
	Kind    FieldErrorKind `json:"kind"`
	Message string         `json:"message"`
}

// ValidationError carries every field error of a rejected submission.
type ValidationError struct {
	Form   Form         `json:"-"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, string(f.Field)+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field was rejected with kind.
func (e *ValidationError) Has(field FormField, kind FieldErrorKind) bool {
	for _, f := range e.Fields {
		if f.Field == field && f.Kind == kind {
			return true
		}
	}
	return false
}

var formMessages = map[Form]map[FormField]map[FieldErrorKind]string{
	FormLogin: {
		FieldEmail: {
			KindRequired: "*Email is required.",
			KindNotFound: "*Email is wrong",
		},
		FieldPassword: {
			KindRequired:      "*Password is required",
			KindWrongPassword: "*Password Didn't match",
		},
	},
	FormRegistration: {
		FieldUsername: {
			KindRequired:    "UserName is required",
			KindUnavailable: "Username is not available",
		},
		FieldEmail: {
			KindRequired:      "UserEmail is Required",
			KindInvalidFormat: "Invalid email address",
			KindUnavailable:   "Email is not available",
		},
		FieldPassword: {
			KindRequired: "Password is required",
			KindTooShort: "Password must be at least 6 characters long",
		},
		FieldRetryPassword: {
			KindRequired: "Password confirmation is required",
			KindMismatch: "Password do not match",
		},
		FieldAvatarFile: {
			KindRequired:      "Avatar image is required",
			KindInvalidFormat: "Avatar must be an image",
			KindTooLarge:      "Avatar image is too large",
		},
	},
	FormUserUpdate: {
		FieldEmail: {
			KindInvalidFormat: "Invalid email address",
			KindUnavailable:   "Email is not available",
		},
		FieldUsername: {
			KindUnavailable: "Username is not available",
		},
		FieldPassword: {
			KindTooShort: "Password must be at least 6 characters long",
		},
		FieldRole: {
			KindInvalid: "Role must be customer or admin",
		},
	},
	FormProduct: {
		FieldTitle: {
			KindRequired: "Title is required",
		},
		FieldPrice: {
			KindRequired:   "Price is required",
			KindOutOfRange: "Price must be greater than 0",
		},
		FieldCategoryID: {
			KindRequired: "Category is required",
			KindNotFound: "Category does not exist",
		},
	},
	FormCartItem: {
		FieldProductID: {
			KindRequired: "Product is required",
			KindNotFound: "Product does not exist",
		},
		FieldQuantity: {
			KindOutOfRange: "Quantity must be at least 1",
		},
	},
}

// NewFieldError builds a FieldError with the message the form shows for it.
func NewFieldError(form Form, field FormField, kind FieldErrorKind) FieldError {
	msg := formMessages[form][field][kind]
	if msg == "" {
		msg = string(field) + " is " + strings.ReplaceAll(string(kind), "_", " ")
	}
	return FieldError{Field: field, Kind: kind, Message: msg}
}

// NewValidationError wraps a single field error.
func NewValidationError(form Form, field FormField, kind FieldErrorKind) *ValidationError {
	return &ValidationError{Form: form, Fields: []FieldError{NewFieldError(form, field, kind)}}
}
