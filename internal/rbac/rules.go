package rbac

// Default policy for the grading service. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:view",
		"submission:create",
		"submission:save",
		"submission:submit",
		"submission:view-own",
		"gradebook:view-own",
	},
	"teacher": {
		"quiz:create",
		"quiz:view",
		"quiz:view-full",
		"submission:view-all",
		"gradebook:manage",
		"gradebook:view-all",
		"users:bulk_upsert",
	},
	"admin": {
		"*", // everything
	},
}
