package cli

import "github.com/dmitrijs2005/cakeplanner/internal/client/guard"

func (a *App) commands() []command {
	member := guard.Authenticated
	admin := guard.Admin
	panel := guard.Panel

	return []command{
		{name: "register", help: "create an account", run: a.Register},
		{name: "login", help: "log in (asks for a code when 2FA is on)", run: a.Login},
		{name: "forgot", help: "request a password reset mail", run: a.ForgotPassword},
		{name: "sysinfo", help: "show backend build information", run: a.SystemInfo},

		{name: "logout", help: "end the session", access: member, run: a.Logout},
		{name: "whoami", help: "show the logged-in user", access: member, run: a.WhoAmI},
		{name: "passwd", help: "change your password", access: member, run: a.ChangePassword},
		{name: "2fa-setup", help: "enrol an authenticator app", access: member, run: a.SetupTwoFactor},

		{name: "events", args: "[YYYY-MM]", help: "month calendar", access: member, run: a.Events},
		{name: "show", args: "<id>", help: "event details", access: member, minArgs: 1, run: a.Show},
		{name: "ranked", help: "best rated cakes", access: member, run: a.Ranked},
		{name: "rate", args: "<id> <1-5> [comment]", help: "rate a cake", access: member, minArgs: 2, run: a.Rate},
		{name: "create", help: "schedule a cake", access: member, run: a.Create},
		{name: "delete", args: "<id>", help: "delete an event", access: member, minArgs: 1, run: a.Delete},
		{name: "ics", args: "<id>", help: "download an event as iCalendar", access: member, minArgs: 1, run: a.DownloadICS},
		{name: "photo", args: "<id> <path>", help: "add a photo to an event", access: member, minArgs: 2, run: a.UploadPhoto},
		{name: "watch", help: "follow new events live (Enter stops)", access: member, run: a.Watch},

		{name: "users", help: "list users", admin: true, access: admin, run: a.Users},
		{name: "activate", args: "<user-id>", help: "activate a user", admin: true, access: admin, minArgs: 1, run: a.Activate},
		{name: "deactivate", args: "<user-id>", help: "deactivate a user", admin: true, access: admin, minArgs: 1, run: a.Deactivate},
		{name: "force-pw", args: "<user-id>", help: "require a password change", admin: true, access: admin, minArgs: 1, run: a.ForcePasswordChange},
		{name: "user-delete", args: "<user-id>", help: "delete a user", admin: true, access: admin, minArgs: 1, run: a.DeleteUser},
		{name: "groups", help: "list groups", admin: true, access: admin, run: a.Groups},
		{name: "group-create", args: "<name>", help: "create a group", admin: true, access: panel, minArgs: 1, run: a.CreateGroup},
		{name: "group-delete", args: "<group-id>", help: "delete a group", admin: true, access: panel, minArgs: 1, run: a.DeleteGroup},
		{name: "assign", args: "<user-id> <group-id>", help: "move a user into a group", admin: true, access: admin, minArgs: 2, run: a.AssignGroup},
		{name: "role", args: "<user-id> <group-id> <admin|member>", help: "set a user's group role", admin: true, access: admin, minArgs: 3, run: a.SetGroupRole},
	}
}
