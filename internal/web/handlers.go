package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/JonMunkholm/SalesOrders/internal/core"
	"github.com/JonMunkholm/SalesOrders/internal/domain"
	"github.com/JonMunkholm/SalesOrders/internal/sheet"
	"github.com/shopspring/decimal"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListOrders returns all persisted orders with customers, details
// and products resolved.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.service.ListOrders(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateOrder creates an order interactively. The order id is
// assigned by the repository's atomic counter.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondErrorStatus(w, r, err, http.StatusBadRequest, "BAD_JSON")
		return
	}

	date, err := time.Parse(sheet.DateLayout, in.Date)
	if err != nil {
		s.respondErrorStatus(w, r, err, http.StatusBadRequest, "BAD_DATE")
		return
	}

	order, err := s.service.CreateOrder(r.Context(), core.CreateOrderInput{
		Date:         date,
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		Details:      in.Details,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderJSON(order))
}

// handleImport runs the sheet import and reports inserted vs skipped vs
// failed orders. Partial failure is never reported as bare success.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Import(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleExport writes all persisted orders to the export sheet.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Export(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// createOrderRequest carries the date as sheet-format text so the JSON
// surface and the sheet agree on one calendar format.
type createOrderRequest struct {
	Date         string             `json:"date"`
	CustomerID   int                `json:"customerId"`
	CustomerName string             `json:"customerName"`
	Details      []core.DetailInput `json:"details"`
}

type orderJSON struct {
	OrderID   int             `json:"orderId"`
	Date      string          `json:"date"`
	Customer  customerJSON    `json:"customer"`
	NetAmount decimal.Decimal `json:"netAmount"`
	Details   []detailJSON    `json:"details"`
}

type customerJSON struct {
	CustomerID int    `json:"customerId"`
	Name       string `json:"name"`
}

type detailJSON struct {
	OrderDetailID int64           `json:"orderDetailId,omitempty"`
	ProductID     int             `json:"productId"`
	ProductName   string          `json:"productName"`
	ProductRate   decimal.Decimal `json:"productRate"`
	Qty           int             `json:"qty"`
	Rate          decimal.Decimal `json:"rate"`
	Amount        decimal.Decimal `json:"amount"`
}

func toOrderJSON(o domain.Order) orderJSON {
	out := orderJSON{
		OrderID:   o.OrderID,
		Date:      o.Date.Format(sheet.DateLayout),
		Customer:  customerJSON{CustomerID: o.Customer.CustomerID, Name: o.Customer.Name},
		NetAmount: o.NetAmount,
		Details:   make([]detailJSON, 0, len(o.Details)),
	}
	for _, d := range o.Details {
		out.Details = append(out.Details, detailJSON{
			OrderDetailID: d.OrderDetailID,
			ProductID:     d.Product.ProductID,
			ProductName:   d.Product.Name,
			ProductRate:   d.Product.Rate,
			Qty:           d.Qty,
			Rate:          d.Rate,
			Amount:        d.Amount,
		})
	}
	return out
}
