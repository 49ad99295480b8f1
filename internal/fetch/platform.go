package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies a food delivery or menu hosting site.
type Platform string

// Known platforms
const (
	PlatformMeituan  Platform = "meituan"
	PlatformEleme    Platform = "eleme"
	PlatformUberEats Platform = "ubereats"
	PlatformDoorDash Platform = "doordash"
	PlatformUnknown  Platform = "unknown"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"meituan.com", PlatformMeituan},
	{"dianping.com", PlatformMeituan},
	{"ele.me", PlatformEleme},
	{"eleme.cn", PlatformEleme},
	{"ubereats.com", PlatformUberEats},
	{"doordash.com", PlatformDoorDash},
}

// DetectPlatform identifies the menu platform from a URL.
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

// RendersClientSide reports whether the platform is known to build its menu in JavaScript.
func (p Platform) RendersClientSide() bool {
	switch p {
	case PlatformMeituan, PlatformEleme, PlatformUberEats, PlatformDoorDash:
		return true
	}
	return false
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformMeituan:
		return []string{".menu-list", ".food-list", ".shop-menu", "main"}
	case PlatformEleme:
		return []string{".shopmenu-list", ".menuview-menu", ".foodlist", "main"}
	case PlatformUberEats:
		return []string{"[data-testid='store-menu']", "ul[data-test='menu']", "main"}
	case PlatformDoorDash:
		return []string{"[data-anchor-id='StoreMenu']", "[data-testid='StoreMenuItem']", "main"}
	default:
		return MenuSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".cart",
		"#cart",
		".basket",
		".checkout",
		".reviews",
		".review-list",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
		".app-download",
	}

	switch platform {
	case PlatformMeituan:
		return append(common, ".shop-comment", ".shop-header-ad")
	case PlatformEleme:
		return append(common, ".shopcart", ".shop-rate")
	case PlatformUberEats:
		return append(common, "[data-testid='store-info-modal']", "[data-testid='cart']")
	case PlatformDoorDash:
		return append(common, "[data-anchor-id='OrderCart']", "[data-testid='ReviewsCarousel']")
	default:
		return common
	}
}
