package churchtools

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/taufwerk/baptizo/core"
)

// Settings live in the ChurchTools key-value store under fixed keys; the value
// is a JSON document encoded as a string.
const (
	adminSettingsKey = "baptizo-admin-settings"
	appSettingsKey   = "baptizo-app-settings"
)

var _ core.SettingsStore = (*Client)(nil)

type (
	kvEntry struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	// flexID tolerates the legacy settings documents that stored entity ids as
	// strings. Unparseable values read as 0 (unconfigured).
	flexID int

	wireAdminSettings struct {
		InterestGroupID flexID `json:"interestGroupId"`
		PipelineGroupID flexID `json:"pipelineGroupId"` // legacy key
		BaptizedGroupID flexID `json:"baptizedGroupId"`
		CalendarID      flexID `json:"calendarId"`
	}
)

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexID(n)
	return nil
}

func (c *Client) kvGet(ctx context.Context, key string) (string, bool, error) {
	var entries []kvEntry
	if _, err := c.get(ctx, "/config/kv-store", nil, &entries); err != nil {
		return "", false, err
	}
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true, nil
		}
	}
	return "", false, nil
}

func (c *Client) kvPut(ctx context.Context, key, value string) error {
	return c.send(ctx, http.MethodPut, "/config/kv-store", kvEntry{Key: key, Value: value})
}

// GetAdminSettings reads the configured entity ids. A missing document is not
// an error; it reads as unconfigured settings.
func (c *Client) GetAdminSettings(ctx context.Context) (core.AdminSettings, error) {
	value, ok, err := c.kvGet(ctx, adminSettingsKey)
	if err != nil || !ok {
		return core.AdminSettings{}, err
	}

	var wire wireAdminSettings
	if err := json.Unmarshal([]byte(value), &wire); err != nil {
		return core.AdminSettings{}, errors.Wrap(err, "parsing admin settings document")
	}
	interest := int(wire.InterestGroupID)
	if interest == 0 {
		interest = int(wire.PipelineGroupID)
	}
	return core.AdminSettings{
		InterestGroupID: interest,
		BaptizedGroupID: int(wire.BaptizedGroupID),
		CalendarID:      int(wire.CalendarID),
	}, nil
}

func (c *Client) SaveAdminSettings(ctx context.Context, s core.AdminSettings) error {
	value, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding admin settings")
	}
	return c.kvPut(ctx, adminSettingsKey, string(value))
}

// GetAppSettings falls back to the stock defaults when no document is stored.
func (c *Client) GetAppSettings(ctx context.Context) (core.AppSettings, error) {
	value, ok, err := c.kvGet(ctx, appSettingsKey)
	if err != nil {
		return core.AppSettings{}, err
	}
	if !ok {
		return core.DefaultAppSettings(), nil
	}

	var s core.AppSettings
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return core.AppSettings{}, errors.Wrap(err, "parsing app settings document")
	}
	return s, nil
}

func (c *Client) SaveAppSettings(ctx context.Context, s core.AppSettings) error {
	value, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding app settings")
	}
	return c.kvPut(ctx, appSettingsKey, string(value))
}
