package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/username/investrack/backend/src/logger"
	"github.com/username/investrack/backend/src/models"
)

// Well-known tickers resolved without any network round trip. The TW table
// keeps the Chinese company names users expect to see.
var taiwanStockNames = map[string]string{
	"2330":   "台積電",
	"2317":   "鴻海",
	"2454":   "聯發科",
	"2412":   "中華電",
	"2882":   "國泰金",
	"2308":   "台達電",
	"2303":   "聯電",
	"2891":   "中信金",
	"6505":   "台塑化",
	"2002":   "中鋼",
	"2886":   "兆豐金",
	"2881":   "富邦金",
	"3008":   "大立光",
	"2892":   "第一金",
	"2379":   "瑞昱",
	"2357":   "華碩",
	"2382":   "廣達",
	"2395":   "研華",
	"2408":   "南亞科",
	"0050":   "台灣50",
	"0056":   "高股息",
	"00878":  "國泰永續高股息",
	"00692":  "富邦公司治理",
	"006208": "富邦台50",
	"1301":   "台塑",
	"1303":   "南亞",
	"1326":   "台化",
	"2207":   "和泰車",
	"2609":   "陽明",
	"2618":   "長榮航",
	"2801":   "彰銀",
	"2880":   "華南金",
	"2885":   "元大金",
	"2890":   "永豐金",
	"2912":   "統一超",
}

var usStockNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft Corporation",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com Inc.",
	"TSLA":  "Tesla Inc.",
	"META":  "Meta Platforms Inc.",
	"NVDA":  "NVIDIA Corporation",
	"BRK.B": "Berkshire Hathaway Inc.",
	"UNH":   "UnitedHealth Group Inc.",
	"JNJ":   "Johnson & Johnson",
	"V":     "Visa Inc.",
	"PG":    "Procter & Gamble Co.",
	"MA":    "Mastercard Inc.",
	"JPM":   "JPMorgan Chase & Co.",
	"XOM":   "Exxon Mobil Corporation",
	"KO":    "Coca-Cola Co.",
	"AVGO":  "Broadcom Inc.",
	"PEP":   "PepsiCo Inc.",
	"COST":  "Costco Wholesale Corp.",
	"DIS":   "Walt Disney Co.",
	"ADBE":  "Adobe Inc.",
	"CRM":   "Salesforce Inc.",
	"NFLX":  "Netflix Inc.",
	"MCD":   "McDonald's Corp.",
	"CSCO":  "Cisco Systems Inc.",
	"WMT":   "Walmart Inc.",
	"BAC":   "Bank of America Corp.",
	"NKE":   "Nike Inc.",
	"QQQ":   "Invesco QQQ Trust",
	"SPY":   "SPDR S&P 500 ETF Trust",
	"VOO":   "Vanguard S&P 500 ETF",
	"VTI":   "Vanguard Total Stock Market ETF",
}

type yahooSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		Shortname string `json:"shortname"`
		Longname  string `json:"longname"`
	} `json:"quotes"`
}

type nameServiceImpl struct {
	httpClient http.Client
	nameCache  *cache.Cache
	db         *sql.DB
	baseURL    string
	limiter    *rate.Limiter
}

// NewNameService builds the display-name resolver. Lookups go through the
// static tables, then the in-memory cache, then the instrument_names table,
// and only then the remote search API, throttled by the limiter.
func NewNameService(nameCache *cache.Cache, db *sql.DB, baseURL string, rps float64, burst int) NameService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	return &nameServiceImpl{
		httpClient: http.Client{
			Jar:     jar,
			Timeout: 20 * time.Second,
		},
		nameCache: nameCache,
		db:        db,
		baseURL:   strings.TrimRight(baseURL, "/"),
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// StockDisplayName returns "CODE Name" for a ticker, or the bare code when
// no name can be resolved. It never returns an error: a record entry must
// not fail because a name lookup did.
func (s *nameServiceImpl) StockDisplayName(ctx context.Context, market, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}

	if name, ok := s.staticName(market, code); ok {
		return code + " " + name
	}

	cacheKey := market + ":" + code
	if cached, found := s.nameCache.Get(cacheKey); found {
		if name, ok := cached.(string); ok && name != "" {
			return code + " " + name
		}
		return code
	}

	if name, err := s.nameFromDB(ctx, market, code); err == nil && name != "" {
		s.nameCache.Set(cacheKey, name, cache.DefaultExpiration)
		return code + " " + name
	}

	name, err := s.fetchName(ctx, market, code)
	if err != nil {
		logger.L.Warn("Stock name lookup failed, using bare code", "market", market, "code", code, "error", err)
		return code
	}
	if name == "" {
		// Cache the miss so repeated unknown codes do not hammer the API.
		s.nameCache.Set(cacheKey, "", cache.DefaultExpiration)
		return code
	}

	s.nameCache.Set(cacheKey, name, cache.DefaultExpiration)
	s.persistName(ctx, market, code, name)
	return code + " " + name
}

func (s *nameServiceImpl) staticName(market, code string) (string, bool) {
	switch market {
	case models.MarketTW:
		name, ok := taiwanStockNames[code]
		return name, ok
	case models.MarketUS:
		name, ok := usStockNames[code]
		return name, ok
	}
	return "", false
}

func (s *nameServiceImpl) nameFromDB(ctx context.Context, market, code string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM instrument_names WHERE market = ? AND code = ?", market, code).Scan(&name)
	if err != nil {
		return "", err
	}
	_, _ = s.db.ExecContext(ctx,
		"UPDATE instrument_names SET last_checked_at = ? WHERE market = ? AND code = ?",
		time.Now().Format(time.RFC3339), market, code)
	return name, nil
}

func (s *nameServiceImpl) persistName(ctx context.Context, market, code, name string) {
	now := time.Now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO instrument_names (market, code, name, created_at, last_checked_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(market, code) DO UPDATE SET
			name = excluded.name,
			last_checked_at = excluded.last_checked_at;`,
		market, code, name, now, now)
	if err != nil {
		logger.L.Warn("Failed to persist instrument name", "market", market, "code", code, "error", err)
	}
}

func (s *nameServiceImpl) fetchName(ctx context.Context, market, code string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	symbol := code
	if market == models.MarketTW {
		symbol = code + ".TW"
	}

	searchURL := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=1&newsCount=0",
		s.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API returned non-OK status %d", resp.StatusCode)
	}

	var searchData yahooSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchData); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(searchData.Quotes) == 0 {
		return "", nil
	}
	quote := searchData.Quotes[0]
	if quote.Shortname != "" {
		return quote.Shortname, nil
	}
	return quote.Longname, nil
}
