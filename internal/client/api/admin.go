package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
)

const adminPath = "/api/admin"

func (c *HTTPClient) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.getJSON(ctx, adminPath+"/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SetUserActive(ctx context.Context, userID string, active bool) error {
	return c.sendJSON(ctx, http.MethodPut, adminPath+"/users/"+url.PathEscape(userID)+"/status",
		map[string]bool{"isActive": active}, nil)
}

func (c *HTTPClient) ForcePasswordChange(ctx context.Context, userID string, mustChange bool) error {
	return c.sendJSON(ctx, http.MethodPost, adminPath+"/users/force-password-change",
		map[string]any{"userId": userID, "mustChange": mustChange}, nil)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, userID string) error {
	return c.sendJSON(ctx, http.MethodDelete, adminPath+"/users/"+url.PathEscape(userID), nil, nil)
}

func (c *HTTPClient) Groups(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	if err := c.getJSON(ctx, adminPath+"/groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	var out models.Group
	if err := c.sendJSON(ctx, http.MethodPost, adminPath+"/groups", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteGroup(ctx context.Context, groupID string) error {
	return c.sendJSON(ctx, http.MethodDelete, adminPath+"/groups/"+url.PathEscape(groupID), nil, nil)
}

func (c *HTTPClient) AssignGroup(ctx context.Context, userID, groupID string) error {
	return c.sendJSON(ctx, http.MethodPost, adminPath+"/users/assign-group",
		map[string]string{"userId": userID, "groupId": groupID}, nil)
}

func (c *HTTPClient) SetGroupRole(ctx context.Context, userID, groupID, role string) error {
	return c.sendJSON(ctx, http.MethodPost, adminPath+"/groups/set-role",
		map[string]string{"userId": userID, "groupId": groupID, "role": role}, nil)
}

func (c *HTTPClient) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	var out models.SystemInfo
	if err := c.getJSON(ctx, "/api/system/sysinfo", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
