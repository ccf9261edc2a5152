package server

import (
	"net/http"

	affordabilitydomain "github.com/brickvale/homebuyer/internal/affordability/domain"
	"github.com/gin-gonic/gin"
)

const (
	defaultIncome     = 60_000
	defaultLoan       = 270_000
	defaultStressRate = 5.75
)

func (s *Server) GetAffordability(c *gin.Context) {
	income, err := queryInt(c.Query("income"), defaultIncome)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	loan, err := queryInt(c.Query("loan"), defaultLoan)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	rate, err := queryFloat(c.Query("rate"), defaultStressRate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	term, err := queryInt(c.Query("term"), defaultTerm)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.affordabilitySvc.Check(affordabilitydomain.CheckRequest{
		AnnualIncome: income,
		LoanAmount:   loan,
		InterestRate: rate,
		TermYears:    term,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
