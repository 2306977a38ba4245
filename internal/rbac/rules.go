package rbac

// Default policy. Registrars own scale configuration; teachers consume
// conversions and GPA; students may only convert their own scores.
var RolePermissions = map[string][]string{
	"student": {
		"scale:view",
		"grade:convert",
	},
	"teacher": {
		"scale:view",
		"grade:convert",
		"gpa:calculate",
		"scale:validate",
	},
	"registrar": {
		"scale:*",
		"grade:convert",
		"gpa:calculate",
		"audit:view",
	},
	"admin": {
		"*", // everything
	},
}
