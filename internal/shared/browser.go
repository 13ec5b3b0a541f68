package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// BrowserCommand returns the program and arguments that open target on goos.
//
// Only absolute http and https URLs are accepted.
func BrowserCommand(goos, target string) (string, []string, error) {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", nil, fmt.Errorf("%w: not an http(s) URL: %q", ErrInvalidArgument, target)
	}

	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenBrowser opens the default system browser at target without waiting for it to exit.
func OpenBrowser(target string) error {
	name, args, err := BrowserCommand(runtime.GOOS, target)
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
