package server

import (
	"net/http"

	stampdutydomain "github.com/brickvale/homebuyer/internal/stampduty/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetStampDuty(c *gin.Context) {
	price, err := queryInt(c.Query("price"), defaultPrice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	quote, err := s.stampDutySvc.Compute(price, queryBool(c.Query("ftb")), queryBool(c.Query("additional")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (s *Server) GetPurchaseCosts(c *gin.Context) {
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
	solicitor, err := queryOptionalInt(c.Query("solicitor"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	survey, err := queryOptionalInt(c.Query("survey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	broker, err := queryOptionalInt(c.Query("broker"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	costs, err := s.stampDutySvc.PurchaseCost(stampdutydomain.PurchaseCostRequest{
		PropertyPrice:  price,
		DepositPercent: deposit,
		FirstTimeBuyer: queryBool(c.Query("ftb")),
		SolicitorFee:   solicitor,
		SurveyCost:     survey,
		BrokerFee:      broker,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, costs)
}
