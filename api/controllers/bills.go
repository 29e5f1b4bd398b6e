package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storebilling/storebilling-backend/api/responses"
	"github.com/storebilling/storebilling-backend/api/validators"
	"github.com/storebilling/storebilling-backend/internal/bills"
	pkgerrors "github.com/storebilling/storebilling-backend/pkg/errors"
	"github.com/storebilling/storebilling-backend/pkg/logger"
	"github.com/storebilling/storebilling-backend/pkg/types"
)

type billRequest struct {
	BillDate   string            `json:"billDate" validate:"required,date"`
	Items      []billLineRequest `json:"items" validate:"required,min=1,dive"`
	FinalPrice *decimal.Decimal  `json:"finalPrice,omitempty" validate:"omitempty,gte=0"`
}

type billLineRequest struct {
	ItemID       string           `json:"itemId" validate:"required,uuid"`
	Quantity     int              `json:"quantity" validate:"required,min=1"`
	PricePerUnit *decimal.Decimal `json:"pricePerUnit,omitempty" validate:"omitempty,gte=0"`
}

func (r billRequest) toInput() (bills.BillInput, error) {
	billDate, err := types.ParseDate(r.BillDate)
	if err != nil {
		return bills.BillInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "billDate must be a YYYY-MM-DD date")
	}
	lines := make([]bills.LineInput, 0, len(r.Items))
	for _, item := range r.Items {
		itemID, err := uuid.Parse(item.ItemID)
		if err != nil {
			return bills.BillInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid itemId")
		}
		lines = append(lines, bills.LineInput{
			ItemID:       itemID,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
		})
	}
	return bills.BillInput{BillDate: billDate, Lines: lines, FinalPrice: r.FinalPrice}, nil
}

// BillList lists bills filtered by ?date= or ?start=&end=.
func BillList(svc bills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bill service unavailable"))
			return
		}
		filter, err := bills.ParseListFilter(
			validators.QueryString(r, "date"),
			validators.QueryString(r, "start"),
			validators.QueryString(r, "end"),
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListBills(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, list)
	}
}

func BillGet(svc bills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bill service unavailable"))
			return
		}
		billID, err := validators.ParseUUIDParam(r, "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bill, err := svc.GetBill(r.Context(), billID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if bill == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Bill not found"))
			return
		}
		responses.WriteSuccess(w, bill)
	}
}

func BillCreate(svc bills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bill service unavailable"))
			return
		}
		input, err := decodeBill(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bill, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bill)
	}
}

// BillReplace swaps every line of the bill for the submitted set.
func BillReplace(svc bills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bill service unavailable"))
			return
		}
		billID, err := validators.ParseUUIDParam(r, "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := decodeBill(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bill, err := svc.Replace(r.Context(), billID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bill)
	}
}

func BillDelete(svc bills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bill service unavailable"))
			return
		}
		billID, err := validators.ParseUUIDParam(r, "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), billID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func decodeBill(r *http.Request) (bills.BillInput, error) {
	var payload billRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return bills.BillInput{}, err
	}
	return payload.toInput()
}
