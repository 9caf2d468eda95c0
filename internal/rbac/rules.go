package rbac

// Default policy. Students run their own review sessions; teachers manage
// classroom content and accounts.
var RolePermissions = map[string][]string{
	"student": {
		"leitner:status",
		"leitner:start",
		"leitner:submit",
		"leitner:finish",
		"leitner:review",
		"assets:get",
		"user:change_password",
	},
	"teacher": {
		"classroom:create",
		"question:*",
		"leitner:status",
		"users:bulk_upsert",
		"users:list",
		"assets:*",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
