package webserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/auth"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/repository"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

type productCSVRow struct {
	ID    string  `csv:"id"`
	Name  string  `csv:"name"`
	Price float64 `csv:"price"`
	Stock int     `csv:"stock"`
}

type orderCSVRow struct {
	OrderID  string  `csv:"order_id"`
	ClientID string  `csv:"client_id"`
	Status   string  `csv:"status"`
	Total    float64 `csv:"total"`
	Product  string  `csv:"product_id"`
	Quantity int     `csv:"quantity"`
	Price    float64 `csv:"unit_price"`
	Created  string  `csv:"created"`
}

// handleExportProducts streams the catalog as CSV. Products are
// global, so no identity is required.
func (s *WebServer) handleExportProducts(c echo.Context) error {
	products, err := repository.NewGormProductRepository(s.db).List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to export products")
	}
	rows := make([]productCSVRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productCSVRow{
			ID:    strconv.FormatInt(p.ID, 10),
			Name:  p.Name,
			Price: p.Price,
			Stock: p.Stock,
		})
	}
	return writeCSV(c, "products.csv", &rows)
}

// handleExportOrders streams the acting salesperson's orders as CSV,
// one row per line item.
func (s *WebServer) handleExportOrders(c echo.Context) error {
	ident := auth.IdentityFrom(c.Request().Context())
	if ident == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	orders, err := repository.NewGormOrderRepository(s.db).ListBySeller(c.Request().Context(), ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to export orders")
	}
	var rows []orderCSVRow
	for _, o := range orders {
		for _, item := range o.Items {
			rows = append(rows, orderCSVRow{
				OrderID:  strconv.FormatInt(o.ID, 10),
				ClientID: strconv.FormatInt(o.ClientID, 10),
				Status:   o.Status,
				Total:    o.Total,
				Product:  strconv.FormatInt(item.ProductID, 10),
				Quantity: item.Quantity,
				Price:    item.Price,
				Created:  o.CreatedAt.Format(time.RFC3339),
			})
		}
	}
	return writeCSV(c, "orders.csv", &rows)
}

func writeCSV(c echo.Context, filename string, rows interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(rows, c.Response())
}
