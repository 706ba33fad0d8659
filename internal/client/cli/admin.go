package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cakeplanner/internal/buildinfo"
	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
)

type groupRole struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
}

type groupName struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (a *App) Users(ctx context.Context, _ []string) error {
	users, err := a.backend.Users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		var flags []string
		if u.IsAdmin {
			flags = append(flags, "admin")
		}
		if !u.IsActive {
			flags = append(flags, "inactive")
		}
		if u.MustChange() {
			flags = append(flags, "must-change-pw")
		}
		group := "-"
		if u.GroupID != "" {
			group = u.GroupID + "/" + orDefault(u.GroupRole, models.GroupRoleMember)
		}
		a.printf("%-36s %-24s %-32s %-20s %s\n", u.ID, u.Name, u.Email, group, strings.Join(flags, ","))
	}
	a.printf("%d user(s)\n", len(users))
	return nil
}

func (a *App) Activate(ctx context.Context, args []string) error {
	return a.setActive(ctx, args[0], true)
}

func (a *App) Deactivate(ctx context.Context, args []string) error {
	return a.setActive(ctx, args[0], false)
}

func (a *App) setActive(ctx context.Context, userID string, active bool) error {
	if err := a.backend.SetUserActive(ctx, userID, active); err != nil {
		return err
	}
	if active {
		a.printf("User %s activated.\n", userID)
	} else {
		a.printf("User %s deactivated.\n", userID)
	}
	return nil
}

func (a *App) ForcePasswordChange(ctx context.Context, args []string) error {
	if err := a.backend.ForcePasswordChange(ctx, args[0], true); err != nil {
		return err
	}
	a.printf("User %s must change the password at next login.\n", args[0])
	return nil
}

func (a *App) DeleteUser(ctx context.Context, args []string) error {
	if err := a.confirm(fmt.Sprintf("Delete user %s and all of their data?", args[0])); err != nil {
		return err
	}
	if err := a.backend.DeleteUser(ctx, args[0]); err != nil {
		return err
	}
	a.println("User deleted.")
	return nil
}

func (a *App) Groups(ctx context.Context, _ []string) error {
	groups, err := a.backend.Groups(ctx)
	if err != nil {
		return err
	}
	for _, g := range groups {
		members := ""
		if g.MemberCount != nil {
			members = fmt.Sprintf("%d member(s)", *g.MemberCount)
		}
		a.printf("%-36s %-30s %s\n", g.ID, g.Name, members)
	}
	a.printf("%d group(s)\n", len(groups))
	return nil
}

func (a *App) CreateGroup(ctx context.Context, args []string) error {
	name := groupName{Name: strings.Join(args, " ")}
	if err := a.check(name); err != nil {
		return err
	}
	g, err := a.backend.CreateGroup(ctx, name.Name)
	if err != nil {
		return err
	}
	a.printf("Group %q created (id %s).\n", g.Name, g.ID)
	return nil
}

func (a *App) DeleteGroup(ctx context.Context, args []string) error {
	if err := a.confirm(fmt.Sprintf("Delete group %s?", args[0])); err != nil {
		return err
	}
	if err := a.backend.DeleteGroup(ctx, args[0]); err != nil {
		return err
	}
	a.println("Group deleted.")
	return nil
}

func (a *App) AssignGroup(ctx context.Context, args []string) error {
	if err := a.backend.AssignGroup(ctx, args[0], args[1]); err != nil {
		return err
	}
	a.printf("User %s assigned to group %s.\n", args[0], args[1])
	return nil
}

func (a *App) SetGroupRole(ctx context.Context, args []string) error {
	role := groupRole{Role: strings.ToLower(args[2])}
	if err := a.check(role); err != nil {
		return err
	}
	if err := a.backend.SetGroupRole(ctx, args[0], args[1], role.Role); err != nil {
		return err
	}
	a.printf("User %s is now %s of group %s.\n", args[0], role.Role, args[1])
	return nil
}

// SystemInfo prints the backend's build description.
func (a *App) SystemInfo(ctx context.Context, _ []string) error {
	info, err := a.backend.SystemInfo(ctx)
	if err != nil {
		return err
	}
	a.printf("%s %s\n", orDefault(info.ProgLongName, info.ProjectName), info.Version)
	if info.Description != "" {
		a.println(info.Description)
	}
	rows := [][2]string{
		{"author", info.Author},
		{"organization", info.Organization},
		{"license", info.License},
		{"homepage", info.Homepage},
		{"compiler", info.Compiler},
	}
	for _, r := range rows {
		if r[1] != "" {
			a.printf("  %-13s %s\n", r[0]+":", r[1])
		}
	}
	a.printf("  %-13s %s\n", "client:", buildinfo.Version())
	return nil
}

func (a *App) confirm(question string) error {
	answer, err := a.prompt(question + " Type 'yes' to confirm")
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		return errCancelled
	}
	return nil
}
