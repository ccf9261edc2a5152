package server

import (
	"net/http"

	mortgagedomain "github.com/brickvale/homebuyer/internal/mortgage/domain"
	"github.com/gin-gonic/gin"
)

const (
	defaultPrice   = 300_000
	defaultDeposit = 10.0
	defaultTerm    = 25
)

// resolveBaseRate prefers an explicit rate parameter over the live
// feed. The rate service never errors; it degrades to the configured
// fallback.
func (s *Server) resolveBaseRate(c *gin.Context) (*float64, error) {
	override, err := queryOptionalFloat(c.Query("rate"))
	if err != nil {
		return nil, err
	}
	if override != nil {
		return override, nil
	}
	rate := s.ratesSvc.BaseRate(c.Request.Context())
	return &rate.Value, nil
}

func (s *Server) GetMortgageQuote(c *gin.Context) {
	price, err := queryInt(c.Query("price"), defaultPrice)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	deposit, err := queryFloat(c.Query("deposit"), defaultDeposit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	term, err := queryInt(c.Query("term"), defaultTerm)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	baseRate, err := s.resolveBaseRate(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	quote, err := s.mortgageSvc.Quote(mortgagedomain.QuoteRequest{
		PropertyPrice:  price,
		DepositPercent: deposit,
		TermYears:      term,
		RateType:       c.Query("rate_type"),
		BaseRate:       baseRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (s *Server) GetDepositComparison(c *gin.Context) {
	price, err := queryInt(c.Query("price"), defaultPrice)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	term, err := queryInt(c.Query("term"), defaultTerm)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	baseRate, err := s.resolveBaseRate(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	quotes, err := s.mortgageSvc.DepositComparison(price, term, "", baseRate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property_price": price, "term_years": term, "comparison": quotes})
}

func (s *Server) GetBaseRate(c *gin.Context) {
	rate := s.ratesSvc.BaseRate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"rate":       rate.Value,
		"source":     rate.Source,
		"fetched_at": rate.FetchedAt,
	})
}
