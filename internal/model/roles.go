package model

// Role is the closed set of validation roles a field can play. The validator
// keys its rule table by Role.
type Role int

const (
	RoleGeneric Role = iota
	RoleEmail
	RolePersonalName
	RolePhone
	RoleMessage
)

var roleNames = map[Role]string{
	RoleGeneric:      "generic",
	RoleEmail:        "email",
	RolePersonalName: "personalName",
	RolePhone:        "phone",
	RoleMessage:      "message",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ClassifyRole maps a field to its role. The first match wins, in the order
// email, personal name, phone, message.
func ClassifyRole(field *Field) Role {
	if field == nil {
		return RoleGeneric
	}
	switch {
	case field.Type == FieldTypeEmail || field.Name == "email":
		return RoleEmail
	case field.Name == "firstName" || field.Name == "lastName":
		return RolePersonalName
	case field.Type == FieldTypeTel || field.Name == "phone":
		return RolePhone
	case field.IsTextarea() || field.Name == "message":
		return RoleMessage
	default:
		return RoleGeneric
	}
}
