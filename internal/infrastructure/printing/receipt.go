package printing

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared/valueobject"
)

// thermal line heights, in millimetres
const (
	thermalRowMM   = 4.5
	thermalItemMM  = 4.0
	thermalTotalMM = 7.0
)

var receiptItemColumns = []Column{
	{Label: "#", Width: 0.07, Align: AlignCenter},
	{Label: "Description", Width: 0.48, Align: AlignLeft},
	{Label: "Qty", Width: 0.10, Align: AlignCenter},
	{Label: "Unit Price", Width: 0.17, Align: AlignRight},
	{Label: "Amount", Align: AlignRight},
}

func (d *DocumentContext) money(amount decimal.Decimal) string {
	return valueobject.MustMoney(amount, d.brand.Currency).Format()
}

// composeReceipt picks the point-of-sale or the full page layout from the
// page profile.
func composeReceipt(d *DocumentContext, r *printing.Receipt) {
	if d.profile.IsThermal() {
		composeThermalReceipt(d, r)
		return
	}
	composeFullReceipt(d, r)
}

// ============================================================================
// Thermal
// ============================================================================

func thermalRow(d *DocumentContext, label, value string, size float64, bold bool, heightMM float64) {
	if value == "" {
		return
	}
	x, w := d.Left(), d.ContentWidth()
	half := d.ContentWidthMM() * 0.5
	d.text(fitText(label, half, size), x, d.y, w, heightMM, font(size, bold, false), d.palette.Text, AlignLeft)
	d.text(fitText(value, half+4, size), x, d.y, w, heightMM, font(size, bold, false), d.palette.Text, AlignRight)
	d.Advance(d.mm(heightMM))
}

// composeThermalReceipt lays the receipt out as plain text rows on a roll.
// Roll stock is continuous so nothing is checked for overflow and there is
// no footer; the engine sizes the slip to the content first.
func composeThermalReceipt(d *DocumentContext, r *printing.Receipt) {
	drawCompactHeader(d, "RECEIPT")

	thermalRow(d, "Receipt #", r.Number, 8, false, thermalRowMM)
	thermalRow(d, "Date", r.IssuedAt, 8, false, thermalRowMM)
	thermalRow(d, "Customer", r.Customer.Name, 8, false, thermalRowMM)
	thermalRow(d, "Member ID", r.Customer.MemberID, 8, false, thermalRowMM)
	thermalRow(d, "Plan", r.Customer.Plan, 8, false, thermalRowMM)
	drawSeparator(d, true)

	x, w := d.Left(), d.ContentWidth()
	for _, item := range r.Lines() {
		for _, line := range wrapText(item.Description, d.ContentWidthMM(), 8) {
			d.text(line, x, d.y, w, thermalItemMM, font(8, false, false), d.palette.Text, AlignLeft)
			d.Advance(d.mm(thermalItemMM))
		}
		qty := "  " + strconv.FormatInt(item.Qty(), 10) + " x " + d.money(item.UnitPrice)
		thermalRow(d, qty, d.money(item.LineTotal()), 8, false, thermalRowMM)
	}
	drawSeparator(d, true)

	thermalRow(d, "Subtotal", d.money(r.Subtotal()), 8, false, thermalRowMM)
	if !r.Tax.IsZero() {
		thermalRow(d, "Tax", d.money(r.Tax), 8, false, thermalRowMM)
	}
	if !r.Discount.IsZero() {
		thermalRow(d, "Discount", "-"+d.money(r.Discount), 8, false, thermalRowMM)
	}
	thermalRow(d, "TOTAL", d.money(r.Total()), 11, true, thermalTotalMM)
	drawSeparator(d, true)

	thermalRow(d, "Payment", r.PaymentMethod, 8, false, thermalRowMM)
	thermalRow(d, "Status", r.Status, 8, false, thermalRowMM)
	thermalRow(d, "Cashier", r.Cashier, 8, false, thermalRowMM)

	if r.Number != "" {
		d.Advance(d.mm(2))
		d.Advance(paintBarcode(d, r.Number, x, d.y, w))
	}
	if note := d.brand.ClosingNote; note != "" {
		d.Advance(d.mm(2))
		for _, line := range wrapText(note, d.ContentWidthMM(), 8) {
			d.text(line, x, d.y, w, thermalItemMM, font(8, false, true), d.palette.Muted, AlignCenter)
			d.Advance(d.mm(thermalItemMM))
		}
	}
}

// thermalSlipProfile lengthens the roll profile so a long receipt still fits
// on one slip. The receipt is laid out once on a measuring canvas to find
// where the cursor ends.
func thermalSlipProfile(profile printing.PageProfile, r *printing.Receipt, brand *printing.Brand) printing.PageProfile {
	d := newDocumentContext(&measureCanvas{width: profile.Width, height: profile.Height}, profile, brand, false)
	composeThermalReceipt(d, r)
	if need := d.Y() + profile.Margin; need > profile.Height {
		return profile.WithHeight(math.Ceil(need))
	}
	return profile
}

// measureCanvas discards drawing calls
type measureCanvas struct {
	width, height float64
}

func (m *measureCanvas) DrawText(string, float64, float64, TextStyle)           {}
func (m *measureCanvas) DrawRect(float64, float64, float64, float64, RectStyle) {}
func (m *measureCanvas) DrawLine(float64, float64, float64, float64, LineStyle) {}
func (m *measureCanvas) DrawImage([]byte, float64, float64, float64, float64) error {
	return nil
}
func (m *measureCanvas) AddPage()                     {}
func (m *measureCanvas) SetPage(int)                  {}
func (m *measureCanvas) PageCount() int               { return 1 }
func (m *measureCanvas) PageSize() (float64, float64) { return m.width, m.height }

// ============================================================================
// Full page
// ============================================================================

func receiptTotals(d *DocumentContext, r *printing.Receipt) KeyValueBox {
	rows := []KVRow{{Label: "Subtotal", Value: d.money(r.Subtotal())}}
	if !r.Tax.IsZero() {
		rows = append(rows, KVRow{Label: "Tax", Value: d.money(r.Tax)})
	}
	if !r.Discount.IsZero() {
		rows = append(rows, KVRow{Label: "Discount", Value: "-" + d.money(r.Discount)})
	}
	rows = append(rows, KVRow{Label: "Total", Value: d.money(r.Total())})
	return KeyValueBox{Title: "Summary", Rows: rows, EmphasizeLast: true}
}

func receiptPayment(r *printing.Receipt) KeyValueBox {
	var rows []KVRow
	for _, row := range []KVRow{
		{Label: "Method", Value: r.PaymentMethod},
		{Label: "Status", Value: r.Status},
		{Label: "Cashier", Value: r.Cashier},
		{Label: "Receipt #", Value: r.Number},
	} {
		if row.Value != "" {
			rows = append(rows, row)
		}
	}
	return KeyValueBox{Title: "Payment", Rows: rows}
}

func composeFullReceipt(d *DocumentContext, r *printing.Receipt) {
	drawHeader(d, HeaderBlock{
		Title:    "Payment Receipt",
		Subtitle: joinNonEmpty(" • ", prefixed("Receipt #", r.Number), r.IssuedAt),
	})
	drawEntityCard(d, EntityCard{
		Caption: "Billed to",
		Name:    r.Customer.Name,
		Fields: []CardField{
			{Label: "Member ID", Value: r.Customer.MemberID},
			{Label: "Plan", Value: r.Customer.Plan},
			{Label: "Phone", Value: r.Customer.Phone},
			{Label: "Email", Value: r.Customer.Email},
		},
	})

	lines := r.Lines()
	rows := make([][]string, len(lines))
	for i, item := range lines {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			item.Description,
			strconv.FormatInt(item.Qty(), 10),
			d.money(item.UnitPrice),
			d.money(item.LineTotal()),
		}
	}
	drawTable(d, TableSpec{
		Columns: receiptItemColumns,
		Rows:    rows,
		Footer:  []string{"", "Subtotal", "", "", d.money(r.Subtotal())},
		Zebra:   true,
	})

	totals := receiptTotals(d, r)
	payment := receiptPayment(r)
	w := d.ContentWidth()
	payW, totW := w*0.5, w*0.45

	leftMM := keyValueBoxHeightMM(payment) + 2 + barcodeBlockMM()
	rightMM := keyValueBoxHeightMM(totals)
	d.EnsureRoom(d.mm(max(leftMM, rightMM)))

	y := d.y
	left := paintKeyValueBox(d, payment, d.Left(), y, payW)
	left += d.mm(2)
	left += paintBarcode(d, r.Number, d.Left(), y+left, payW)
	right := paintKeyValueBox(d, totals, d.Left()+w-totW, y, totW)
	d.Advance(max(left, right) + d.mm(blockGapMM))
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}
