package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"skyreview/internal/config"
)

// Access is the permission a directory check requires.
type Access uint32

const (
	// ReadOnly is enough for input directories such as the batch.
	ReadOnly Access = unix.R_OK | unix.X_OK
	// ReadWrite is required where feedback or logs are written.
	ReadWrite Access = unix.R_OK | unix.W_OK | unix.X_OK
)

const textProbeTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and grants access.
func CheckDirectoryAccess(name, path string, access Access) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, uint32(access)); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	mode := "read ok"
	if access&unix.W_OK != 0 {
		mode = "read/write ok"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, mode)}
}

// CheckTextSource probes the remote article text base URL. Any HTTP answer
// below 500 counts as reachable: documents live below the base, which itself
// may well answer 404.
func CheckTextSource(ctx context.Context, baseURL string) Result {
	const name = "Article text"

	ctx, cancel := context.WithTimeout(ctx, textProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL+"/", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url: %v", err)}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable: %v", err)}
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{Name: name, Detail: fmt.Sprintf("%s answered %d", baseURL, resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", baseURL)}
}

func feedbackDir(cfg *config.Config) string {
	return filepath.Dir(cfg.FeedbackPath())
}
