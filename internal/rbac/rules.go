package rbac

// Default policy for the export service.
var RolePermissions = map[string][]string{
	"reviewer": {
		"category:list",
		"export:download",
	},
	"teacher": {
		"category:list",
		"question:import",
		"question:export",
		"export:download",
	},
	"admin": {
		"*", // everything
	},
}
