package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iho/societyledger/internal/domain"
)

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

type transactionDoc struct {
	ID            string               `bson:"_id"`
	Society       string               `bson:"society"`
	Date          time.Time            `bson:"date"`
	CreatedAt     time.Time            `bson:"created_at"`
	PaidFrom      string               `bson:"paid_from"`
	PaidTo        string               `bson:"paid_to"`
	Type          string               `bson:"type"`
	VoucherNumber string               `bson:"voucher_number,omitempty"`
	Narration     string               `bson:"narration,omitempty"`
	Amount        primitive.Decimal128 `bson:"amount"`
}

func newTransactionDoc(tx *domain.Transaction) (*transactionDoc, error) {
	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
	}
	return &transactionDoc{
		ID:            tx.ID,
		Society:       tx.Society,
		Date:          tx.Date,
		CreatedAt:     tx.CreatedAt,
		PaidFrom:      tx.PaidFrom,
		PaidTo:        tx.PaidTo,
		Type:          string(tx.Type),
		VoucherNumber: tx.VoucherNumber,
		Narration:     tx.Narration,
		Amount:        amount,
	}, nil
}

func (d *transactionDoc) toDomain() (*domain.Transaction, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction %s amount: %v", domain.ErrMalformedRecord, d.ID, err)
	}

	tx := &domain.Transaction{
		ID:            d.ID,
		Society:       d.Society,
		Date:          d.Date.UTC(),
		CreatedAt:     d.CreatedAt.UTC(),
		PaidFrom:      d.PaidFrom,
		PaidTo:        d.PaidTo,
		Type:          domain.TransactionType(d.Type),
		VoucherNumber: d.VoucherNumber,
		Narration:     d.Narration,
		Amount:        amount,
	}
	if err := tx.CheckStored(); err != nil {
		return nil, err
	}
	return tx, nil
}

type billDoc struct {
	ID            string               `bson:"_id"`
	Society       string               `bson:"society"`
	BillNumber    string               `bson:"bill_number"`
	Name          string               `bson:"name"`
	StartDate     time.Time            `bson:"start_date"`
	DueDate       time.Time            `bson:"due_date,omitempty"`
	CreatedAt     time.Time            `bson:"created_at"`
	DefaultAmount primitive.Decimal128 `bson:"default_amount"`
}

func billID(society, billNumber string) string {
	return society + "/" + billNumber
}

func newBillDoc(b *domain.Bill) (*billDoc, error) {
	amount, err := toDecimal128(b.DefaultAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
	}
	return &billDoc{
		ID:            billID(b.Society, b.BillNumber),
		Society:       b.Society,
		BillNumber:    b.BillNumber,
		Name:          b.Name,
		StartDate:     b.StartDate,
		DueDate:       b.DueDate,
		CreatedAt:     b.CreatedAt,
		DefaultAmount: amount,
	}, nil
}

func (d *billDoc) toDomain() (*domain.Bill, error) {
	amount, err := fromDecimal128(d.DefaultAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: bill %s amount: %v", domain.ErrMalformedRecord, d.ID, err)
	}
	if d.BillNumber == "" {
		return nil, fmt.Errorf("%w: bill %s without number", domain.ErrMalformedRecord, d.ID)
	}
	return &domain.Bill{
		Society:       d.Society,
		BillNumber:    d.BillNumber,
		Name:          d.Name,
		StartDate:     d.StartDate.UTC(),
		DueDate:       d.DueDate.UTC(),
		CreatedAt:     d.CreatedAt.UTC(),
		DefaultAmount: amount,
	}, nil
}

type billChargeDoc struct {
	Amount primitive.Decimal128 `bson:"amount"`
	Status string               `bson:"status"`
}

type paymentDoc struct {
	PaymentDate   time.Time            `bson:"payment_date"`
	VoucherNumber string               `bson:"voucher_number"`
	Status        string               `bson:"status,omitempty"`
	Amount        primitive.Decimal128 `bson:"amount"`
}

type vehicleDoc struct {
	Number string `bson:"number"`
	Type   string `bson:"type,omitempty"`
	Model  string `bson:"model,omitempty"`
	Owner  string `bson:"owner,omitempty"`
}

type flatDoc struct {
	ID        string                   `bson:"_id"`
	Society   string                   `bson:"society"`
	Wing      string                   `bson:"wing"`
	Floor     string                   `bson:"floor"`
	Flat      string                   `bson:"flat"`
	Position  int                      `bson:"position"`
	Owner     string                   `bson:"owner,omitempty"`
	Bills     map[string]billChargeDoc `bson:"bills"`
	Vehicles  map[string]vehicleDoc    `bson:"vehicles"`
	Advances  []paymentDoc             `bson:"advances"`
	Refunds   []paymentDoc             `bson:"refunds"`
	Uncleared []paymentDoc             `bson:"uncleared"`
	Version   int64                    `bson:"version"`
	CreatedAt time.Time                `bson:"created_at"`
	UpdatedAt time.Time                `bson:"updated_at"`
}

func newFlatDoc(f *domain.Flat, position int) (*flatDoc, error) {
	doc := &flatDoc{
		ID:        f.Key.ID(),
		Society:   f.Key.Society,
		Wing:      f.Key.Wing,
		Floor:     f.Key.Floor,
		Flat:      f.Key.Flat,
		Position:  position,
		Owner:     f.Owner,
		Version:   f.Version,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}

	var err error
	if doc.Bills, err = encodeBills(f.Bills); err != nil {
		return nil, err
	}
	doc.Vehicles = encodeVehicles(f.Vehicles)
	if doc.Advances, err = encodeAdvances(f.Advances); err != nil {
		return nil, err
	}
	if doc.Refunds, err = encodeRefunds(f.Refunds); err != nil {
		return nil, err
	}
	if doc.Uncleared, err = encodeUncleared(f.Uncleared); err != nil {
		return nil, err
	}
	return doc, nil
}

// fieldValue encodes one top-level flat field for a $set.
func fieldValue(f *domain.Flat, field domain.FlatField) (interface{}, error) {
	switch field {
	case domain.FieldOwner:
		return f.Owner, nil
	case domain.FieldBills:
		return encodeBills(f.Bills)
	case domain.FieldVehicles:
		return encodeVehicles(f.Vehicles), nil
	case domain.FieldAdvances:
		return encodeAdvances(f.Advances)
	case domain.FieldRefunds:
		return encodeRefunds(f.Refunds)
	case domain.FieldUncleared:
		return encodeUncleared(f.Uncleared)
	}
	return nil, fmt.Errorf("%w: unknown flat field %q", domain.ErrValidation, field)
}

func (d *flatDoc) toDomain() (*domain.Flat, error) {
	f := &domain.Flat{
		Key: domain.FlatKey{
			Society: d.Society,
			Wing:    d.Wing,
			Floor:   d.Floor,
			Flat:    d.Flat,
		},
		Owner:     d.Owner,
		Bills:     make(map[string]domain.BillCharge, len(d.Bills)),
		Vehicles:  make(map[string]domain.Vehicle, len(d.Vehicles)),
		Version:   d.Version,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if err := f.Key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: flat %s: %v", domain.ErrMalformedRecord, d.ID, err)
	}

	for number, c := range d.Bills {
		amount, err := fromDecimal128(c.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: flat %s bill %s: %v", domain.ErrMalformedRecord, d.ID, number, err)
		}
		status := domain.BillStatus(c.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: flat %s bill %s status %q", domain.ErrMalformedRecord, d.ID, number, c.Status)
		}
		f.Bills[number] = domain.BillCharge{Amount: amount, Status: status}
	}

	for number, v := range d.Vehicles {
		f.Vehicles[number] = domain.Vehicle{Number: v.Number, Type: v.Type, Model: v.Model, Owner: v.Owner}
	}

	for _, p := range d.Advances {
		amount, err := fromDecimal128(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: flat %s advance %s: %v", domain.ErrMalformedRecord, d.ID, p.VoucherNumber, err)
		}
		f.Advances = append(f.Advances, domain.Advance{PaymentDate: p.PaymentDate.UTC(), VoucherNumber: p.VoucherNumber, Amount: amount})
	}

	for _, p := range d.Refunds {
		amount, err := fromDecimal128(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: flat %s refund %s: %v", domain.ErrMalformedRecord, d.ID, p.VoucherNumber, err)
		}
		f.Refunds = append(f.Refunds, domain.Refund{PaymentDate: p.PaymentDate.UTC(), VoucherNumber: p.VoucherNumber, Amount: amount})
	}

	for _, p := range d.Uncleared {
		amount, err := fromDecimal128(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: flat %s uncleared %s: %v", domain.ErrMalformedRecord, d.ID, p.VoucherNumber, err)
		}
		status := domain.UnclearedStatus(p.Status)
		if status != domain.UnclearedPending && status != domain.UnclearedCleared {
			return nil, fmt.Errorf("%w: flat %s uncleared %s status %q", domain.ErrMalformedRecord, d.ID, p.VoucherNumber, p.Status)
		}
		f.Uncleared = append(f.Uncleared, domain.UnclearedEntry{
			PaymentDate:   p.PaymentDate.UTC(),
			VoucherNumber: p.VoucherNumber,
			Status:        status,
			Amount:        amount,
		})
	}

	return f, nil
}

func encodeBills(bills map[string]domain.BillCharge) (map[string]billChargeDoc, error) {
	out := make(map[string]billChargeDoc, len(bills))
	for number, c := range bills {
		amount, err := toDecimal128(c.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: bill %s: %v", domain.ErrInvalidAmount, number, err)
		}
		out[number] = billChargeDoc{Amount: amount, Status: string(c.Status)}
	}
	return out, nil
}

func encodeVehicles(vehicles map[string]domain.Vehicle) map[string]vehicleDoc {
	out := make(map[string]vehicleDoc, len(vehicles))
	for number, v := range vehicles {
		out[number] = vehicleDoc{Number: v.Number, Type: v.Type, Model: v.Model, Owner: v.Owner}
	}
	return out
}

func encodePayment(date time.Time, voucher, status string, amount decimal.Decimal) (paymentDoc, error) {
	d, err := toDecimal128(amount)
	if err != nil {
		return paymentDoc{}, fmt.Errorf("%w: voucher %s: %v", domain.ErrInvalidAmount, voucher, err)
	}
	return paymentDoc{PaymentDate: date, VoucherNumber: voucher, Status: status, Amount: d}, nil
}

func encodeAdvances(entries []domain.Advance) ([]paymentDoc, error) {
	out := make([]paymentDoc, 0, len(entries))
	for _, e := range entries {
		p, err := encodePayment(e.PaymentDate, e.VoucherNumber, "", e.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func encodeRefunds(entries []domain.Refund) ([]paymentDoc, error) {
	out := make([]paymentDoc, 0, len(entries))
	for _, e := range entries {
		p, err := encodePayment(e.PaymentDate, e.VoucherNumber, "", e.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func encodeUncleared(entries []domain.UnclearedEntry) ([]paymentDoc, error) {
	out := make([]paymentDoc, 0, len(entries))
	for _, e := range entries {
		p, err := encodePayment(e.PaymentDate, e.VoucherNumber, string(e.Status), e.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
