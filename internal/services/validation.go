package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/finance"
	"finance_tracker/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so errors line up with request bodies.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Numeric tags on decimals compare against the float value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Validate checks a command struct and converts failures to a validation error.
// The first failing field names the error; every failing field is listed in the details.
func Validate(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Wrap(apperrors.ErrValidation, "invalid input", err)
	}

	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	first := verrs[0]
	return apperrors.ValidationField(first.Field(), describe(first)).
		WithDetails(map[string]any{"field": first.Field(), "fields": fields})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// NewEntry is a manual ledger entry. Manual entries never repay a loan.
// A missing or zero amount is rejected; the sign is dropped when stored.
type NewEntry struct {
	Date     time.Time       `json:"date" validate:"required"`
	Category string          `json:"category" validate:"required,max=50"`
	Kind     models.Kind     `json:"kind" validate:"required,oneof=Income Expense"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
}

// NewCommitment is a recurring commitment. Setting LoanID makes it a loan repayment.
type NewCommitment struct {
	NextDue   time.Time          `json:"next_due_date" validate:"required"`
	Category  string             `json:"category" validate:"required,max=50"`
	Kind      models.Kind        `json:"kind" validate:"required,oneof=Income Expense"`
	Amount    decimal.Decimal    `json:"amount" validate:"required"`
	Frequency calendar.Frequency `json:"frequency" validate:"required"`
	LoanID    *int64             `json:"loan_id,omitempty" validate:"omitempty,gt=0"`
}

// NewLoan opens a loan.
type NewLoan struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Principal    decimal.Decimal `json:"principal" validate:"gt=0"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0,lte=100"`
	SigningDate  time.Time       `json:"signing_date" validate:"required"`
}

// NewLot records a purchase of a security.
type NewLot struct {
	Symbol        string          `json:"symbol" validate:"required,max=12"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gt=0"`
	Quantity      decimal.Decimal `json:"quantity" validate:"gt=0"`
	PurchaseDate  time.Time       `json:"purchase_date" validate:"required"`
}

// NewAsset records a non-market holding.
type NewAsset struct {
	Name           string          `json:"name" validate:"required,max=100"`
	PurchasePrice  decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	YearOfPurchase int             `json:"year_of_purchase" validate:"gte=1900,lte=2200"`
}

// FIREParams are the user-adjustable inputs of a retirement projection. Rates are fractions.
type FIREParams struct {
	Portfolio      decimal.Decimal `json:"portfolio" validate:"gte=0"`
	Income         decimal.Decimal `json:"income" validate:"gte=0"`
	SavingsRate    decimal.Decimal `json:"savings_rate" validate:"gte=0,lte=1"`
	IncomeGrowth   decimal.Decimal `json:"income_growth" validate:"gte=-1,lte=1"`
	GrowthYears    int             `json:"growth_years" validate:"gte=0,lte=100"`
	Expenses       decimal.Decimal `json:"expenses" validate:"gte=0"`
	WithdrawalRate decimal.Decimal `json:"withdrawal_rate" validate:"gt=0,lte=1"`
	ROI            decimal.Decimal `json:"roi" validate:"gte=-1,lte=1"`
	IncludeLoans   bool            `json:"include_loans"`
}

// Inputs converts the params to simulator inputs.
func (p FIREParams) Inputs() finance.FIREInputs {
	return finance.FIREInputs{
		Portfolio:      p.Portfolio,
		Income:         p.Income,
		SavingsRate:    p.SavingsRate,
		IncomeGrowth:   p.IncomeGrowth,
		GrowthYears:    p.GrowthYears,
		Expenses:       p.Expenses,
		WithdrawalRate: p.WithdrawalRate,
		ROI:            p.ROI,
		IncludeLoans:   p.IncludeLoans,
	}
}
