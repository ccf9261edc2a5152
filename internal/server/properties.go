package server

import (
	"net/http"
	"strings"

	landregistrydomain "github.com/brickvale/homebuyer/internal/landregistry/domain"
	propertyfeedsdomain "github.com/brickvale/homebuyer/internal/propertyfeeds/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetAreaPrices(c *gin.Context) {
	postcode := strings.TrimSpace(c.Query("postcode"))
	town := strings.TrimSpace(c.Query("town"))

	stats, err := s.landRegistrySvc.AreaStats(c.Request.Context(), landregistrydomain.SearchRequest{
		Postcode: postcode,
		Town:     town,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (s *Server) SearchProperties(c *gin.Context) {
	criteria, err := propertyCriteria(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	listings, err := s.propertySvc.Search(c.Request.Context(), criteria)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(listings), "results": listings})
}

func (s *Server) GetPropertyStats(c *gin.Context) {
	location := strings.TrimSpace(c.Query("location"))
	if location == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	stats, err := s.propertySvc.AreaStats(c.Request.Context(), location)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func propertyCriteria(c *gin.Context) (propertyfeedsdomain.SearchCriteria, error) {
	var criteria propertyfeedsdomain.SearchCriteria
	var err error

	criteria.Location = strings.TrimSpace(c.Query("location"))
	if criteria.MinPrice, err = queryInt(c.Query("min_price"), 0); err != nil {
		return criteria, err
	}
	if criteria.MaxPrice, err = queryInt(c.Query("max_price"), 0); err != nil {
		return criteria, err
	}
	if criteria.MinBedrooms, err = queryInt(c.Query("min_beds"), 0); err != nil {
		return criteria, err
	}
	if criteria.MaxBedrooms, err = queryInt(c.Query("max_beds"), 0); err != nil {
		return criteria, err
	}
	if criteria.RadiusMiles, err = queryFloat(c.Query("radius"), 0); err != nil {
		return criteria, err
	}
	if criteria.MaxResults, err = queryInt(c.Query("max_results"), 0); err != nil {
		return criteria, err
	}
	criteria.PropertyType = strings.TrimSpace(c.Query("property_type"))
	criteria.Keywords = strings.TrimSpace(c.Query("keywords"))
	return criteria, nil
}
