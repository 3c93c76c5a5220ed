package useragent

import (
	"strings"
)

const Unknown = "Unknown"

// Info is what the log pipeline derives from a User-Agent string.
type Info struct {
	OS      string
	Browser string
}

// Sniff derives OS and browser names from a raw User-Agent header.
// Best effort string matching; anything unrecognized maps to Unknown.
func Sniff(ua string) Info {
	return Info{
		OS:      sniffOS(ua),
		Browser: sniffBrowser(ua),
	}
}

func sniffOS(ua string) string {
	lower := strings.ToLower(ua)

	switch {
	case strings.Contains(lower, "windows nt 10"):
		return "Windows 10/11"
	case strings.Contains(lower, "windows"):
		return "Windows"
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"):
		return "iOS"
	case strings.Contains(lower, "mac os x"), strings.Contains(lower, "macintosh"):
		return "macOS"
	case strings.Contains(lower, "android"):
		return "Android"
	case strings.Contains(lower, "cros"):
		return "ChromeOS"
	case strings.Contains(lower, "linux"):
		return "Linux"
	default:
		return Unknown
	}
}

func sniffBrowser(ua string) string {
	lower := strings.ToLower(ua)

	// Order matters: Edge and Opera embed "chrome", Chrome embeds "safari".
	switch {
	case strings.Contains(lower, "edg/"), strings.Contains(lower, "edge"):
		return "Edge"
	case strings.Contains(lower, "opr/"), strings.Contains(lower, "opera"):
		return "Opera"
	case strings.Contains(lower, "firefox"):
		return "Firefox"
	case strings.Contains(lower, "chrome"):
		return "Chrome"
	case strings.Contains(lower, "safari"):
		return "Safari"
	case strings.Contains(lower, "trident"), strings.Contains(lower, "msie"):
		return "Internet Explorer"
	default:
		return Unknown
	}
}
