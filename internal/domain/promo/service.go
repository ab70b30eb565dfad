package promo

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/StpaPSBB/storefront/internal/domain/money"
	"github.com/StpaPSBB/storefront/internal/gateway"
)

// Registrar is the slice of the payment gateway the promotions store needs.
type Registrar interface {
	CreateCoupon(ctx context.Context, p gateway.CouponParams) (string, error)
	DeleteCoupon(ctx context.Context, currency money.Currency, ref string) error
	CreateTaxRate(ctx context.Context, p gateway.TaxRateParams) (string, error)
	DeactivateTaxRate(ctx context.Context, currency money.Currency, ref string) error
}

// Service owns discount and tax lifecycle, including the one-shot external
// registration side effect.
type Service struct {
	repo Repository
	gw   Registrar
}

// NewService creates a promotions Service.
func NewService(repo Repository, gw Registrar) *Service {
	return &Service{repo: repo, gw: gw}
}

// CreateDiscountParams holds the caller-settable discount fields.
type CreateDiscountParams struct {
	Name       string
	PercentOff int
	Duration   Duration
	Currency   money.Currency
}

// CreateDiscount validates the terms, registers a gateway coupon, and persists
// the record with its reference. The reference is assigned here and never
// regenerated for this record.
func (s *Service) CreateDiscount(ctx context.Context, p CreateDiscountParams) (*Discount, error) {
	if p.Name == "" {
		return nil, errors.New("discount name required")
	}
	if p.PercentOff < 0 || p.PercentOff > 100 {
		return nil, ErrInvalidPercent
	}
	if p.Duration == "" {
		p.Duration = DurationOnce
	}
	if !p.Duration.valid() {
		return nil, errors.Errorf("unsupported duration %q", p.Duration)
	}
	if !p.Currency.Valid() {
		return nil, errors.Errorf("unsupported currency %q", p.Currency)
	}

	ref, err := s.gw.CreateCoupon(ctx, gateway.CouponParams{
		Name:       p.Name,
		PercentOff: p.PercentOff,
		Duration:   string(p.Duration),
		Currency:   p.Currency,
	})
	if err != nil {
		return nil, errors.Wrap(err, "register coupon")
	}

	d := &Discount{
		ID:         uuid.New().String(),
		Name:       p.Name,
		PercentOff: p.PercentOff,
		Duration:   p.Duration,
		Currency:   p.Currency,
		CouponRef:  ref,
	}
	if err := s.repo.CreateDiscount(ctx, d); err != nil {
		return nil, errors.Wrap(err, "create discount")
	}
	return d, nil
}

// RegisterDiscount creates the gateway coupon for a record that was stored
// without one, for example by a seeder or bulk import. Already-registered
// records return ErrRegistered. The gateway call happens before the reference
// is persisted, so a storage failure leaves at worst an orphan coupon, never
// a dangling local reference.
func (s *Service) RegisterDiscount(ctx context.Context, id string) (*Discount, error) {
	d, err := s.repo.GetDiscount(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Registered() {
		return nil, ErrRegistered
	}

	ref, err := s.gw.CreateCoupon(ctx, gateway.CouponParams{
		Name:       d.Name,
		PercentOff: d.PercentOff,
		Duration:   string(d.Duration),
		Currency:   d.Currency,
	})
	if err != nil {
		return nil, errors.Wrap(err, "register coupon")
	}
	if err := s.repo.SetDiscountRef(ctx, id, ref); err != nil {
		return nil, errors.Wrap(err, "store coupon ref")
	}
	d.CouponRef = ref
	return d, nil
}

// UpdateDiscount rewrites the economic terms of an unregistered record.
// Registered records are immutable: changing terms requires a new discount.
func (s *Service) UpdateDiscount(ctx context.Context, id string, p CreateDiscountParams) error {
	d, err := s.repo.GetDiscount(ctx, id)
	if err != nil {
		return err
	}
	if d.Registered() {
		return ErrRegistered
	}
	if p.PercentOff < 0 || p.PercentOff > 100 {
		return ErrInvalidPercent
	}
	d.Name = p.Name
	d.PercentOff = p.PercentOff
	if p.Duration != "" {
		d.Duration = p.Duration
	}
	if p.Currency != "" {
		d.Currency = p.Currency
	}
	return s.repo.UpdateDiscount(ctx, d)
}

// DeleteDiscount removes the gateway coupon, then the record. A coupon the
// gateway no longer knows about does not block deletion.
func (s *Service) DeleteDiscount(ctx context.Context, id string) error {
	d, err := s.repo.GetDiscount(ctx, id)
	if err != nil {
		return err
	}
	if d.Registered() {
		if err := s.gw.DeleteCoupon(ctx, d.Currency, d.CouponRef); err != nil {
			var gwErr *gateway.Error
			if !errors.As(err, &gwErr) {
				return errors.Wrap(err, "delete coupon")
			}
			// A coupon already gone on the gateway side must not strand
			// the local record.
		}
	}
	return s.repo.DeleteDiscount(ctx, id)
}

// CreateTaxParams holds the caller-settable tax fields.
type CreateTaxParams struct {
	Name       string
	Percentage int
	Currency   money.Currency
}

// CreateTax validates the terms, registers a gateway tax rate, and persists
// the record with its reference.
func (s *Service) CreateTax(ctx context.Context, p CreateTaxParams) (*Tax, error) {
	if p.Name == "" {
		return nil, errors.New("tax name required")
	}
	if p.Percentage < 0 || p.Percentage > 100 {
		return nil, ErrInvalidPercent
	}
	if !p.Currency.Valid() {
		return nil, errors.Errorf("unsupported currency %q", p.Currency)
	}

	ref, err := s.gw.CreateTaxRate(ctx, gateway.TaxRateParams{
		Name:       p.Name,
		Percentage: p.Percentage,
		Currency:   p.Currency,
	})
	if err != nil {
		return nil, errors.Wrap(err, "register tax rate")
	}

	t := &Tax{
		ID:         uuid.New().String(),
		Name:       p.Name,
		Percentage: p.Percentage,
		Currency:   p.Currency,
		TaxRateRef: ref,
	}
	if err := s.repo.CreateTax(ctx, t); err != nil {
		return nil, errors.Wrap(err, "create tax")
	}
	return t, nil
}

// RegisterTax creates the gateway tax rate for an unregistered record,
// mirroring RegisterDiscount.
func (s *Service) RegisterTax(ctx context.Context, id string) (*Tax, error) {
	t, err := s.repo.GetTax(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Registered() {
		return nil, ErrRegistered
	}

	ref, err := s.gw.CreateTaxRate(ctx, gateway.TaxRateParams{
		Name:       t.Name,
		Percentage: t.Percentage,
		Currency:   t.Currency,
	})
	if err != nil {
		return nil, errors.Wrap(err, "register tax rate")
	}
	if err := s.repo.SetTaxRef(ctx, id, ref); err != nil {
		return nil, errors.Wrap(err, "store tax rate ref")
	}
	t.TaxRateRef = ref
	return t, nil
}

// UpdateTax rewrites the terms of an unregistered record, mirroring
// UpdateDiscount.
func (s *Service) UpdateTax(ctx context.Context, id string, p CreateTaxParams) error {
	t, err := s.repo.GetTax(ctx, id)
	if err != nil {
		return err
	}
	if t.Registered() {
		return ErrRegistered
	}
	if p.Percentage < 0 || p.Percentage > 100 {
		return ErrInvalidPercent
	}
	t.Name = p.Name
	t.Percentage = p.Percentage
	if p.Currency != "" {
		t.Currency = p.Currency
	}
	return s.repo.UpdateTax(ctx, t)
}

// DeleteTax deactivates the gateway tax rate (tax rates cannot be deleted)
// and removes the record.
func (s *Service) DeleteTax(ctx context.Context, id string) error {
	t, err := s.repo.GetTax(ctx, id)
	if err != nil {
		return err
	}
	if t.Registered() {
		if err := s.gw.DeactivateTaxRate(ctx, t.Currency, t.TaxRateRef); err != nil {
			var gwErr *gateway.Error
			if !errors.As(err, &gwErr) {
				return errors.Wrap(err, "deactivate tax rate")
			}
		}
	}
	return s.repo.DeleteTax(ctx, id)
}
