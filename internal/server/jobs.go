package server

import (
	"net/http"
	"strings"

	jobsearchdomain "github.com/brickvale/homebuyer/internal/jobsearch/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) SearchJobs(c *gin.Context) {
	criteria, err := jobCriteria(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	jobs, err := s.jobSvc.Search(c.Request.Context(), criteria)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(jobs), "results": jobs})
}

func (s *Server) GetJobStats(c *gin.Context) {
	location := strings.TrimSpace(c.Query("location"))
	if location == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	stats, err := s.jobSvc.AreaStats(c.Request.Context(), location)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (s *Server) GetSalaryHistory(c *gin.Context) {
	location := strings.TrimSpace(c.Query("location"))
	category := strings.TrimSpace(c.Query("category"))

	history, err := s.jobSvc.SalaryHistory(c.Request.Context(), location, category)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if history == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No salary history available - check your Adzuna credentials"})
		return
	}

	c.JSON(http.StatusOK, history)
}

func jobCriteria(c *gin.Context) (jobsearchdomain.JobSearchCriteria, error) {
	var criteria jobsearchdomain.JobSearchCriteria
	var err error

	criteria.Keywords = strings.TrimSpace(c.Query("keywords"))
	criteria.Location = strings.TrimSpace(c.Query("location"))
	if criteria.DistanceKM, err = queryInt(c.Query("distance"), 0); err != nil {
		return criteria, err
	}
	if criteria.MinSalary, err = queryInt(c.Query("min_salary"), 0); err != nil {
		return criteria, err
	}
	if criteria.MaxSalary, err = queryInt(c.Query("max_salary"), 0); err != nil {
		return criteria, err
	}
	if criteria.MaxResults, err = queryInt(c.Query("max_results"), 0); err != nil {
		return criteria, err
	}
	criteria.ContractType = strings.TrimSpace(c.Query("contract_type"))
	criteria.Category = strings.TrimSpace(c.Query("category"))
	return criteria, nil
}
