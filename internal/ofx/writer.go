package ofx

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Account identifies the statement's account.
type Account struct {
	Balance decimal.Decimal
	BankID  string
	AcctID  string
}

// Writer produces OFX 2.0.3 bank statements.
type Writer struct {
	now func() time.Time
}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{now: time.Now}
}

// Write encodes txns as a checking account statement for account.
func (w *Writer) Write(out io.Writer, account Account, txns []model.Transaction) error {
	now := w.now()

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	list := &ofxgo.TransactionList{
		DtStart: ofxgo.Date{Time: now},
		DtEnd:   ofxgo.Date{Time: now},
	}
	if len(sorted) > 0 {
		list.DtStart = ofxgo.Date{Time: sorted[0].Date}
		list.DtEnd = ofxgo.Date{Time: sorted[len(sorted)-1].Date}
	}

	for _, t := range sorted {
		var amt ofxgo.Amount
		if _, ok := amt.SetString(t.Amount.StringFixed(2)); !ok {
			return fmt.Errorf("transaction %s has unencodable amount %s", t.ID, t.Amount)
		}
		entry := ofxgo.Transaction{
			DtPosted: ofxgo.Date{Time: t.Date},
			TrnAmt:   amt,
			FiTID:    ofxgo.String(t.ID),
			Name:     ofxgo.String(truncate(t.Description, 32)),
			Memo:     ofxgo.String(string(t.Category)),
		}
		setTrnType(&entry, t)
		list.Transactions = append(list.Transactions, entry)
	}

	var balance ofxgo.Amount
	if _, ok := balance.SetString(account.Balance.StringFixed(2)); !ok {
		return fmt.Errorf("unencodable balance %s", account.Balance)
	}

	uid, err := ofxgo.RandomUID()
	if err != nil {
		return fmt.Errorf("failed to generate transaction UID: %w", err)
	}
	currency, err := ofxgo.NewCurrSymbol("USD")
	if err != nil {
		return fmt.Errorf("failed to build currency: %w", err)
	}

	stmt := &ofxgo.StatementResponse{
		TrnUID: *uid,
		Status: ofxgo.Status{Code: 0, Severity: "INFO"},
		CurDef: *currency,
		BankAcctFrom: ofxgo.BankAcct{
			BankID:   ofxgo.String(account.BankID),
			AcctID:   ofxgo.String(account.AcctID),
			AcctType: ofxgo.AcctTypeChecking,
		},
		BankTranList: list,
		BalAmt:       balance,
		DtAsOf:       ofxgo.Date{Time: now},
	}

	resp := ofxgo.Response{
		Version: ofxgo.OfxVersion203,
		Signon: ofxgo.SignonResponse{
			Status:   ofxgo.Status{Code: 0, Severity: "INFO"},
			DtServer: ofxgo.Date{Time: now},
			Language: "ENG",
		},
		Bank: []ofxgo.Message{stmt},
	}

	buf, err := resp.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode OFX statement: %w", err)
	}
	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write OFX statement: %w", err)
	}
	return nil
}

// setTrnType picks the OFX transaction type from the category and sign.
func setTrnType(entry *ofxgo.Transaction, t model.Transaction) {
	switch {
	case t.Category == model.CategoryTransfer:
		entry.TrnType = ofxgo.TrnTypeXfer
	case t.Category == model.CategoryBills:
		entry.TrnType = ofxgo.TrnTypePayment
	case t.Amount.IsPositive():
		entry.TrnType = ofxgo.TrnTypeCredit
	default:
		entry.TrnType = ofxgo.TrnTypeDebit
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
