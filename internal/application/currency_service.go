package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/domain/entity"
	"github.com/anycompany/carmarket/pkg/apperror"
	"github.com/anycompany/carmarket/pkg/helpers"
)

const (
	keyCurrencyRates   = "currency:rates"
	DefaultCurrencyURL = "https://api.privatbank.ua/p24api/pubinfo?json&exchange&coursid=5"
)

// Rate is the UAH price of one unit of Currency.
type Rate struct {
	Currency entity.Currency `json:"currency"`
	Buy      decimal.Decimal `json:"buy"`
	Sale     decimal.Decimal `json:"sale"`
}

type Rates struct {
	Base      entity.Currency `json:"base"`
	Rates     []Rate          `json:"rates"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// uah returns how many hryvnias one unit of c is worth, using the sale rate.
func (r *Rates) uah(c entity.Currency) (decimal.Decimal, bool) {
	if c == entity.CurrencyUAH {
		return decimal.NewFromInt(1), true
	}
	for _, rate := range r.Rates {
		if rate.Currency == c && rate.Sale.IsPositive() {
			return rate.Sale, true
		}
	}
	return decimal.Zero, false
}

// RateSource fetches current exchange rates against UAH.
type RateSource interface {
	Fetch(ctx context.Context) ([]Rate, error)
}

// PrivatBankSource reads the public cash rate feed: [{ccy, base_ccy, buy, sale}].
type PrivatBankSource struct {
	URL    string
	Client *http.Client
}

func (p PrivatBankSource) Fetch(ctx context.Context) ([]Rate, error) {
	if p.Client == nil {
		p.Client = &http.Client{Timeout: 5 * time.Second}
	}
	url := p.URL
	if url == "" {
		url = DefaultCurrencyURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed answered %d", resp.StatusCode)
	}

	var body []struct {
		Ccy     string          `json:"ccy"`
		BaseCcy string          `json:"base_ccy"`
		Buy     decimal.Decimal `json:"buy"`
		Sale    decimal.Decimal `json:"sale"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	var out []Rate
	for _, row := range body {
		c, ok := entity.ParseCurrency(row.Ccy)
		if !ok || c == entity.CurrencyUAH || !strings.EqualFold(row.BaseCcy, string(entity.CurrencyUAH)) {
			continue
		}
		out = append(out, Rate{Currency: c, Buy: row.Buy, Sale: row.Sale})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("rate feed returned no usable rates")
	}
	return out, nil
}

// CurrencyService caches rates in process and in Redis for TTL.
type CurrencyService struct {
	Source RateSource
	Redis  *redis.Client
	TTL    time.Duration
	Logger *logrus.Logger

	mu       sync.RWMutex
	cached   *Rates
	failedAt time.Time
	now      func() time.Time
}

// retryAfter spaces out fetches once the feed has failed, so car listings do not each wait on it.
const retryAfter = time.Minute

func NewCurrencyService(source RateSource, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *CurrencyService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CurrencyService{Source: source, Redis: rdb, TTL: ttl, Logger: logger, now: time.Now}
}

func (s *CurrencyService) fresh(r *Rates) bool {
	return r != nil && s.now().Sub(r.FetchedAt) < s.TTL
}

func (s *CurrencyService) Rates(ctx context.Context) (*Rates, error) {
	s.mu.RLock()
	cur, failedAt := s.cached, s.failedAt
	s.mu.RUnlock()
	if s.fresh(cur) {
		return cur, nil
	}

	if s.Redis != nil {
		var r Rates
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, keyCurrencyRates, &r)
		if err != nil {
			helpers.LogWarn(s.Logger, "read cached rates failed", err, nil)
		}
		if ok && s.fresh(&r) {
			s.store(&r)
			return &r, nil
		}
	}

	if s.Source == nil || (!failedAt.IsZero() && s.now().Sub(failedAt) < retryAfter) {
		if cur != nil {
			return cur, nil
		}
		return nil, apperror.New(apperror.CodeDependency, "exchange rates are unavailable")
	}
	list, err := s.Source.Fetch(ctx)
	if err != nil {
		s.mu.Lock()
		s.failedAt = s.now()
		s.mu.Unlock()
		if cur != nil {
			helpers.LogWarn(s.Logger, "rate refresh failed, serving stale rates", err, nil)
			return cur, nil
		}
		return nil, apperror.Wrap(apperror.CodeDependency, err, "exchange rates are unavailable")
	}
	r := &Rates{Base: entity.CurrencyUAH, Rates: list, FetchedAt: s.now().UTC()}
	s.store(r)
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, keyCurrencyRates, r, s.TTL); err != nil {
			helpers.LogWarn(s.Logger, "cache rates failed", err, nil)
		}
	}
	return r, nil
}

func (s *CurrencyService) store(r *Rates) {
	s.mu.Lock()
	s.cached = r
	s.failedAt = time.Time{}
	s.mu.Unlock()
}

func convert(r *Rates, amount decimal.Decimal, from, to entity.Currency) (decimal.Decimal, error) {
	fromUAH, ok := r.uah(from)
	if !ok {
		return decimal.Zero, apperror.Newf(apperror.CodeValidation, "no rate for %s", from)
	}
	toUAH, ok := r.uah(to)
	if !ok {
		return decimal.Zero, apperror.Newf(apperror.CodeValidation, "no rate for %s", to)
	}
	return amount.Mul(fromUAH).Div(toUAH).Round(2), nil
}

// Convert goes through UAH, the base of every rate.
func (s *CurrencyService) Convert(ctx context.Context, amount decimal.Decimal, from, to entity.Currency) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperror.Validation("amount must not be negative")
	}
	if from == to {
		return amount.Round(2), nil
	}
	r, err := s.Rates(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return convert(r, amount, from, to)
}

// PricesFor expresses price in every supported currency. It returns nil when rates are unavailable.
func (s *CurrencyService) PricesFor(ctx context.Context, price decimal.Decimal, cur entity.Currency) map[entity.Currency]decimal.Decimal {
	if s == nil {
		return nil
	}
	r, err := s.Rates(ctx)
	if err != nil {
		return nil
	}
	out := make(map[entity.Currency]decimal.Decimal, len(entity.Currencies))
	for _, c := range entity.Currencies {
		v, err := convert(r, price, cur, c)
		if err != nil {
			return nil
		}
		out[c] = v
	}
	return out
}
