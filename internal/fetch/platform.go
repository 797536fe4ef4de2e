package fetch

import (
	"net/url"
	"strings"
)

// Platform is a site that commonly hosts resumes and portfolios.
type Platform string

const (
	PlatformGitHub  Platform = "github"
	PlatformGitLab  Platform = "gitlab"
	PlatformNotion  Platform = "notion"
	PlatformMedium  Platform = "medium"
	PlatformUnknown Platform = "unknown"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"github.com", PlatformGitHub},
	{"github.io", PlatformGitHub},
	{"gitlab.com", PlatformGitLab},
	{"gitlab.io", PlatformGitLab},
	{"notion.site", PlatformNotion},
	{"notion.so", PlatformNotion},
	{"medium.com", PlatformMedium},
}

// DetectPlatform identifies the hosting platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range platformHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.platform
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform, most specific first.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGitHub:
		return []string{
			"article.markdown-body", // profile README or rendered resume.md
			".markdown-body",
			"main",
		}
	case PlatformGitLab:
		return []string{".md", ".file-content", "main"}
	case PlatformNotion:
		return []string{".notion-page-content", ".notion-frame", "main"}
	case PlatformMedium:
		return []string{"article", "main"}
	default:
		return DefaultTextSelectors()
	}
}

// PlatformNoiseSelectors returns elements to drop before text extraction.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGitHub:
		return append(common, ".js-header-wrapper", ".file-navigation", ".BorderGrid-row")
	case PlatformMedium:
		return append(common, ".pw-multi-vote-count", ".pw-responses-count", "aside")
	default:
		return common
	}
}
