package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/mcuadros/go-version"
)

const (
	SLM_VIEW_VERSION_URL = "https://raw.githubusercontent.com/giwty/switch-library-manager/master/slm.json"
)

// Check if a newer version than localVer is published at url.
// Returns the remote version as well.
func CheckForUpdates(ctx context.Context, url string, localVer string) (bool, string, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	remoteValues := map[string]string{}
	err := retry.Do(
		func() error {
			return fetchVersion(ctx, client, url, remoteValues)
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil
		}),
	)
	if err != nil {
		return false, "", err
	}

	remoteVer := remoteValues["version"]
	if remoteVer == "" {
		return false, "", fmt.Errorf("no version published at %v", url)
	}

	if version.CompareSimple(remoteVer, localVer) > 0 {
		return true, remoteVer, nil
	}

	return false, remoteVer, nil
}

func fetchVersion(ctx context.Context, client *http.Client, url string, out map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("version check returned %v", res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, &out)
}
