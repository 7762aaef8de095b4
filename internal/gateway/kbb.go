package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"budget-reconciler/internal/notes"
	"budget-reconciler/internal/usecase"

	"golang.org/x/net/html"
)

var _ usecase.VehiclePricer = (*KBB)(nil)

var ErrMissingAPIKey = errors.New("missing KBB API key")

const (
	DefaultKBBCarURL        = "https://upa.syndication.kbb.com/usedcar/privateparty/sell"
	DefaultKBBMotorcycleURL = "https://www.kbb.com/motorcycles"
)

var kbbValuePattern = regexp.MustCompile(`"value":\s*(\d+)`)

type KBBConfig struct {
	CarURL        string
	MotorcycleURL string
	APIKey        string
	Client        *http.Client
	Now           func() time.Time
}

// KBB scrapes private party values from Kelley Blue Book pages.
type KBB struct {
	cfg KBBConfig
}

func NewKBB(cfg KBBConfig) *KBB {
	if cfg.CarURL == "" {
		cfg.CarURL = DefaultKBBCarURL
	}
	if cfg.MotorcycleURL == "" {
		cfg.MotorcycleURL = DefaultKBBMotorcycleURL
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &KBB{cfg: cfg}
}

// Price returns the vehicle value in whole dollars.
func (k *KBB) Price(ctx context.Context, cfg notes.VehicleConfig) (int64, error) {
	u, err := k.valuationURL(cfg)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.3")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.7")
	req.Header.Set("Referer", "https://www.google.com/")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := k.cfg.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("could not fetch KBB page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("could not read KBB page: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{Method: http.MethodGet, URL: req.URL.Redacted(), Code: resp.StatusCode}
	}
	return parseKBBPrice(string(body))
}

func (k *KBB) valuationURL(cfg notes.VehicleConfig) (string, error) {
	var u *url.URL
	var err error
	query := url.Values{}

	switch cfg.Kind {
	case notes.VehicleCar:
		if k.cfg.APIKey == "" {
			return "", ErrMissingAPIKey
		}
		if u, err = url.Parse(k.cfg.CarURL); err != nil {
			return "", fmt.Errorf("invalid KBB url: %w", err)
		}
		query.Set("vehicleid", cfg.VehicleID)
		query.Set("apikey", k.cfg.APIKey)
		if cfg.Zipcode != "" {
			query.Set("zipcode", cfg.Zipcode)
		}
		if cfg.Condition != "" {
			query.Set("condition", cfg.Condition)
		}
		if cfg.HasMileage {
			query.Set("mileage", strconv.Itoa(cfg.Mileage))
		}
		if cfg.Options != "" {
			query.Set("optionids", cfg.Options)
		}
	case notes.VehicleMotorcycle:
		if u, err = url.Parse(k.cfg.MotorcycleURL); err != nil {
			return "", fmt.Errorf("invalid KBB url: %w", err)
		}
		u = u.JoinPath(cfg.Make, cfg.Model, cfg.Year)
		u.Path += "/"
	default:
		return "", fmt.Errorf("unknown KBB type: %s", cfg.Kind)
	}

	if cfg.PriceType != "" {
		query.Set("pricetype", cfg.PriceType)
	}
	query.Set("format", "html")
	query.Set("requesteddataversiondate", k.cfg.Now().Format("1/2/2006"))
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// parseKBBPrice reads the fourth <text> node of the #PriceAdvisor chart,
// falling back to the first "value" field embedded in the page.
func parseKBBPrice(page string) (int64, error) {
	if doc, err := html.Parse(strings.NewReader(page)); err == nil {
		if advisor := findByID(doc, "PriceAdvisor"); advisor != nil {
			texts := findAllByTag(advisor, "text")
			if len(texts) > 3 {
				raw := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(textContent(texts[3])))
				if price, err := strconv.ParseInt(raw, 10, 64); err == nil {
					return price, nil
				}
			}
		}
	}

	m := kbbValuePattern.FindStringSubmatch(page)
	if m == nil {
		return 0, fmt.Errorf("failed to parse KBB page")
	}
	return strconv.ParseInt(m[1], 10, 64)
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findAllByTag(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
