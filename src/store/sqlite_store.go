package store

import (
	"database/sql"
	"fmt"

	"github.com/username/investrack/backend/src/models"
)

// SQLiteStore persists the record logs in SQLite via database/sql. The
// schema is managed by the migrations under db/migrations.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) AppendStock(r models.StockRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO stock_records (id, market, asset_type, code, name, type, date, shares, price, fee, tax, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Market, r.AssetType, r.Code, r.Name, r.Type, r.Date, r.Shares, r.Price, r.Fee, r.Tax, r.Total)
	if err != nil {
		return fmt.Errorf("appending stock record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveStock(id int64) error {
	return s.remove("stock_records", id)
}

func (s *SQLiteStore) ListStocks() ([]models.StockRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, market, asset_type, code, name, type, date, shares, price, fee, tax, total
		FROM stock_records ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing stock records: %w", err)
	}
	defer rows.Close()

	var records []models.StockRecord
	for rows.Next() {
		var r models.StockRecord
		if err := rows.Scan(&r.ID, &r.Market, &r.AssetType, &r.Code, &r.Name, &r.Type, &r.Date,
			&r.Shares, &r.Price, &r.Fee, &r.Tax, &r.Total); err != nil {
			return nil, fmt.Errorf("scanning stock record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) AppendFund(r models.FundRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO fund_records (id, name, type, date, amount, nav, units, fee)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Type, r.Date, r.Amount, r.NAV, r.Units, r.Fee)
	if err != nil {
		return fmt.Errorf("appending fund record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveFund(id int64) error {
	return s.remove("fund_records", id)
}

func (s *SQLiteStore) ListFunds() ([]models.FundRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, name, type, date, amount, nav, units, fee
		FROM fund_records ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing fund records: %w", err)
	}
	defer rows.Close()

	var records []models.FundRecord
	for rows.Next() {
		var r models.FundRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.Date, &r.Amount, &r.NAV, &r.Units, &r.Fee); err != nil {
			return nil, fmt.Errorf("scanning fund record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) AppendCrypto(r models.CryptoRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO crypto_records (id, symbol, type, date, amount, price, fee, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Symbol, r.Type, r.Date, r.Amount, r.Price, r.Fee, r.Total)
	if err != nil {
		return fmt.Errorf("appending crypto record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveCrypto(id int64) error {
	return s.remove("crypto_records", id)
}

func (s *SQLiteStore) ListCryptos() ([]models.CryptoRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, symbol, type, date, amount, price, fee, total
		FROM crypto_records ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing crypto records: %w", err)
	}
	defer rows.Close()

	var records []models.CryptoRecord
	for rows.Next() {
		var r models.CryptoRecord
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Type, &r.Date, &r.Amount, &r.Price, &r.Fee, &r.Total); err != nil {
			return nil, fmt.Errorf("scanning crypto record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) AppendProperty(r models.PropertyRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO property_records (id, name, type, date, amount, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Type, r.Date, r.Amount, r.Description)
	if err != nil {
		return fmt.Errorf("appending property record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveProperty(id int64) error {
	return s.remove("property_records", id)
}

func (s *SQLiteStore) ListProperties() ([]models.PropertyRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, name, type, date, amount, description
		FROM property_records ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing property records: %w", err)
	}
	defer rows.Close()

	var records []models.PropertyRecord
	for rows.Next() {
		var r models.PropertyRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.Date, &r.Amount, &r.Description); err != nil {
			return nil, fmt.Errorf("scanning property record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) AppendPayment(r models.PaymentRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO payment_records (id, property_id, date, amount, principal, interest)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.PropertyID, r.Date, r.Amount, r.Principal, r.Interest)
	if err != nil {
		return fmt.Errorf("appending payment record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemovePayment(id int64) error {
	return s.remove("payment_records", id)
}

func (s *SQLiteStore) ListPayments() ([]models.PaymentRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, property_id, date, amount, principal, interest
		FROM payment_records ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing payment records: %w", err)
	}
	defer rows.Close()

	var records []models.PaymentRecord
	for rows.Next() {
		var r models.PaymentRecord
		if err := rows.Scan(&r.ID, &r.PropertyID, &r.Date, &r.Amount, &r.Principal, &r.Interest); err != nil {
			return nil, fmt.Errorf("scanning payment record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) All() (models.Snapshot, error) {
	var snapshot models.Snapshot
	var err error

	if snapshot.Stocks, err = s.ListStocks(); err != nil {
		return models.Snapshot{}, err
	}
	if snapshot.Funds, err = s.ListFunds(); err != nil {
		return models.Snapshot{}, err
	}
	if snapshot.Cryptos, err = s.ListCryptos(); err != nil {
		return models.Snapshot{}, err
	}
	if snapshot.Properties, err = s.ListProperties(); err != nil {
		return models.Snapshot{}, err
	}
	if snapshot.Payments, err = s.ListPayments(); err != nil {
		return models.Snapshot{}, err
	}
	return snapshot, nil
}

func (s *SQLiteStore) ReplaceAll(snapshot models.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"stock_records", "fund_records", "crypto_records", "property_records", "payment_records"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, r := range snapshot.Stocks {
		if _, err := tx.Exec(`
			INSERT INTO stock_records (id, market, asset_type, code, name, type, date, shares, price, fee, tax, total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Market, r.AssetType, r.Code, r.Name, r.Type, r.Date, r.Shares, r.Price, r.Fee, r.Tax, r.Total); err != nil {
			return fmt.Errorf("importing stock record %d: %w", r.ID, err)
		}
	}
	for _, r := range snapshot.Funds {
		if _, err := tx.Exec(`
			INSERT INTO fund_records (id, name, type, date, amount, nav, units, fee)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Type, r.Date, r.Amount, r.NAV, r.Units, r.Fee); err != nil {
			return fmt.Errorf("importing fund record %d: %w", r.ID, err)
		}
	}
	for _, r := range snapshot.Cryptos {
		if _, err := tx.Exec(`
			INSERT INTO crypto_records (id, symbol, type, date, amount, price, fee, total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Symbol, r.Type, r.Date, r.Amount, r.Price, r.Fee, r.Total); err != nil {
			return fmt.Errorf("importing crypto record %d: %w", r.ID, err)
		}
	}
	for _, r := range snapshot.Properties {
		if _, err := tx.Exec(`
			INSERT INTO property_records (id, name, type, date, amount, description)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Type, r.Date, r.Amount, r.Description); err != nil {
			return fmt.Errorf("importing property record %d: %w", r.ID, err)
		}
	}
	for _, r := range snapshot.Payments {
		if _, err := tx.Exec(`
			INSERT INTO payment_records (id, property_id, date, amount, principal, interest)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.PropertyID, r.Date, r.Amount, r.Principal, r.Interest); err != nil {
			return fmt.Errorf("importing payment record %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) remove(table string, id int64) error {
	res, err := s.db.Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("removing from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result for %s: %w", table, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
