package model

import internalmodel "github.com/goliatone/go-formpipe/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText     = internalmodel.FieldTypeText
	FieldTypeEmail    = internalmodel.FieldTypeEmail
	FieldTypeTel      = internalmodel.FieldTypeTel
	FieldTypeCheckbox = internalmodel.FieldTypeCheckbox
	FieldTypeTextarea = internalmodel.FieldTypeTextarea
	FieldTypeSelect   = internalmodel.FieldTypeSelect
	FieldTypeHidden   = internalmodel.FieldTypeHidden
)

type Tag = internalmodel.Tag

const (
	TagInput    = internalmodel.TagInput
	TagTextarea = internalmodel.TagTextarea
	TagSelect   = internalmodel.TagSelect
)

type Validity = internalmodel.Validity

const (
	ValidityUnknown = internalmodel.ValidityUnknown
	ValidityValid   = internalmodel.ValidityValid
	ValidityInvalid = internalmodel.ValidityInvalid
)

type Severity = internalmodel.Severity

const (
	SeverityInfo    = internalmodel.SeverityInfo
	SeveritySuccess = internalmodel.SeveritySuccess
	SeverityDanger  = internalmodel.SeverityDanger
)

type Role = internalmodel.Role

const (
	RoleGeneric      = internalmodel.RoleGeneric
	RoleEmail        = internalmodel.RoleEmail
	RolePersonalName = internalmodel.RolePersonalName
	RolePhone        = internalmodel.RolePhone
	RoleMessage      = internalmodel.RoleMessage
)

const (
	HoneypotName         = internalmodel.HoneypotName
	ClassInvalid         = internalmodel.ClassInvalid
	ClassWasValidated    = internalmodel.ClassWasValidated
	ClassNeedsValidation = internalmodel.ClassNeedsValidation
	ClassFeedback        = internalmodel.ClassFeedback
)

type Field = internalmodel.Field
type Feedback = internalmodel.Feedback
type SubmitControl = internalmodel.SubmitControl
type Form = internalmodel.Form
