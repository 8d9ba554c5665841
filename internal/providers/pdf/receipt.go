// Package pdf renders booking receipts for completed appointments.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.uber.org/fx"
)

// Provider renders documents for a booking.
type Provider interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

type ReceiptData struct {
	BookingID    string
	CustomerName string
	ServiceName  string
	BookingDate  string
	TimeSlot     string
	PriceLabel   string
	FinalPrice   *int64
	PointsUsed   *int64
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(25,
		text.NewCol(12, "Booking Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(25,
		col.New(6).Add(
			text.New("Booking: "+data.BookingID, props.Text{Top: 0}),
			text.New("Customer: "+data.CustomerName, props.Text{Top: 5}),
			text.New("Date: "+data.BookingDate+" "+data.TimeSlot, props.Text{Top: 10}),
		),
		col.New(6),
	)

	m.AddRow(10,
		text.NewCol(8, "Service", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(12,
		text.NewCol(8, data.ServiceName, props.Text{Size: 9}),
		text.NewCol(4, data.PriceLabel, props.Text{Size: 9, Align: align.Right}),
	)

	if data.PointsUsed != nil && *data.PointsUsed > 0 {
		m.AddRow(10,
			col.New(8),
			text.NewCol(2, "Points used", props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", *data.PointsUsed), props.Text{Size: 9, Align: align.Right}),
		)
	}
	if data.FinalPrice != nil {
		m.AddRow(10,
			col.New(8),
			text.NewCol(2, "Total paid", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.NewCol(2, fmt.Sprintf("%d", *data.FinalPrice), props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

var Module = fx.Provide(New)
