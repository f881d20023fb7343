package request

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type Page struct {
	Page    int
	PerPage int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParsePage reads page and per_page from the query string. per_page is
// clamped to maxPerPage; a maxPerPage of zero pins it to defaultPerPage.
func ParsePage(c *gin.Context, defaultPerPage, maxPerPage int) Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	if maxPerPage == 0 {
		return Page{Page: page, PerPage: defaultPerPage}
	}

	perPage, err := strconv.Atoi(c.Query("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return Page{Page: page, PerPage: perPage}
}

// ParseID parses a positive integer path parameter.
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
