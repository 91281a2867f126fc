package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"usedcar-analyzer/models"
	"usedcar-analyzer/utils"
)

// PostgresStore persists the clean dataset and serves the dashboard's read
// queries.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use store. The initial ping is retried because the
// database container may still be starting; batch work itself is never
// retried.
func NewPostgresStore(dsn string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := utils.Retry(logger, "postgres ping", 5, 2*time.Second, db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db, logger: logger}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS car_reference (
			id             SERIAL PRIMARY KEY,
			brand          TEXT    NOT NULL,
			canonical_name TEXT    UNIQUE NOT NULL,
			body_type      TEXT    NOT NULL DEFAULT '',
			new_car_price  NUMERIC(12,2) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS listings (
			id             SERIAL PRIMARY KEY,
			canonical_name TEXT    NOT NULL,
			full_name      TEXT    NOT NULL,
			model_year     INTEGER,
			mileage_km     NUMERIC(12,1),
			price_manwon   INTEGER,
			UNIQUE (canonical_name, full_name, model_year, mileage_km, price_manwon)
		);

		CREATE TABLE IF NOT EXISTS used_car_yearly (
			year_num           INTEGER PRIMARY KEY,
			total_transactions BIGINT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS all_car_yearly (
			year_num           INTEGER PRIMARY KEY,
			total_transactions BIGINT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS car_faq (
			id          SERIAL PRIMARY KEY,
			category    TEXT NOT NULL,
			question    TEXT NOT NULL,
			answer      TEXT NOT NULL,
			source_site TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_listings_canonical ON listings(canonical_name);
		CREATE INDEX IF NOT EXISTS idx_listings_price     ON listings(price_manwon);
		CREATE INDEX IF NOT EXISTS idx_listings_year      ON listings(model_year);
	`)
	return err
}

// WriteReference replaces the reference table in full.
func (ps *PostgresStore) WriteReference(reference []models.ReferenceModel) error {
	if len(reference) == 0 {
		return nil
	}
	if _, err := ps.db.Exec("DELETE FROM car_reference"); err != nil {
		return fmt.Errorf("postgres: clear car_reference: %w", err)
	}

	for _, ref := range reference {
		_, err := ps.db.Exec(`
			INSERT INTO car_reference (brand, canonical_name, body_type, new_car_price)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (canonical_name) DO NOTHING
		`, ref.Brand, ref.CanonicalName, ref.BodyType, ref.NewCarPrice)
		if err != nil {
			return fmt.Errorf("postgres: insert reference %q: %w", ref.CanonicalName, err)
		}
	}
	return nil
}

// WriteListings batch-inserts all clean listings, clearing old data first.
func (ps *PostgresStore) WriteListings(listings []models.NormalizedListing) error {
	if len(listings) == 0 {
		return nil
	}
	if _, err := ps.db.Exec("DELETE FROM listings"); err != nil {
		return fmt.Errorf("postgres: clear listings: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := ps.insertListingBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertListingBatch(batch []models.NormalizedListing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*5)

	for idx, l := range batch {
		base := idx * 5
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5))
		valueArgs = append(valueArgs,
			l.CanonicalName, l.FullName, l.ModelYear, l.MileageKM, l.PriceManwon)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (canonical_name, full_name, model_year, mileage_km, price_manwon)
		VALUES %s
		ON CONFLICT (canonical_name, full_name, model_year, mileage_km, price_manwon) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert listings batch: %w", err)
	}
	return nil
}

// WriteUsedCarYearly replaces the used-market yearly transaction table.
func (ps *PostgresStore) WriteUsedCarYearly(rows []models.YearlyTransactions) error {
	return ps.writeYearly("used_car_yearly", rows)
}

// WriteAllCarYearly replaces the whole-market yearly transaction table.
func (ps *PostgresStore) WriteAllCarYearly(rows []models.YearlyTransactions) error {
	return ps.writeYearly("all_car_yearly", rows)
}

// writeYearly only ever receives the two fixed table names above.
func (ps *PostgresStore) writeYearly(table string, rows []models.YearlyTransactions) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := ps.db.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("postgres: clear %s: %w", table, err)
	}
	for _, r := range rows {
		_, err := ps.db.Exec(
			"INSERT INTO "+table+" (year_num, total_transactions) VALUES ($1, $2) ON CONFLICT (year_num) DO NOTHING",
			r.Year, r.TotalTransactions)
		if err != nil {
			return fmt.Errorf("postgres: insert %s year %d: %w", table, r.Year, err)
		}
	}
	return nil
}

// WriteFAQ replaces the FAQ table.
func (ps *PostgresStore) WriteFAQ(entries []models.FAQEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if _, err := ps.db.Exec("DELETE FROM car_faq"); err != nil {
		return fmt.Errorf("postgres: clear car_faq: %w", err)
	}
	for _, e := range entries {
		_, err := ps.db.Exec(
			"INSERT INTO car_faq (category, question, answer, source_site) VALUES ($1, $2, $3, $4)",
			e.Category, e.Question, e.Answer, e.Site)
		if err != nil {
			return fmt.Errorf("postgres: insert faq: %w", err)
		}
	}
	return nil
}

// FetchListings returns the joined clean view: listings inner-joined to
// their reference attributes on canonical name, filtered to rows with a
// price and a mileage.
func (ps *PostgresStore) FetchListings() ([]models.NormalizedListing, error) {
	rows, err := ps.db.Query(`
		SELECT l.canonical_name, l.full_name, l.model_year, l.mileage_km, l.price_manwon,
		       r.brand, r.body_type, r.new_car_price
		FROM listings l
		JOIN car_reference r ON r.canonical_name = l.canonical_name
		WHERE l.price_manwon IS NOT NULL
		  AND l.mileage_km IS NOT NULL
		ORDER BY l.id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch listings: %w", err)
	}
	defer rows.Close()

	var listings []models.NormalizedListing
	for rows.Next() {
		var l models.NormalizedListing
		if err := rows.Scan(
			&l.CanonicalName, &l.FullName, &l.ModelYear, &l.MileageKM, &l.PriceManwon,
			&l.Brand, &l.BodyType, &l.NewCarPrice,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// FetchUsedCarYearly returns the used-market yearly counts in year order.
func (ps *PostgresStore) FetchUsedCarYearly() ([]models.YearlyTransactions, error) {
	return ps.fetchYearly("used_car_yearly")
}

// FetchAllCarYearly returns the whole-market yearly counts in year order.
func (ps *PostgresStore) FetchAllCarYearly() ([]models.YearlyTransactions, error) {
	return ps.fetchYearly("all_car_yearly")
}

func (ps *PostgresStore) fetchYearly(table string) ([]models.YearlyTransactions, error) {
	rows, err := ps.db.Query("SELECT year_num, total_transactions FROM " + table + " ORDER BY year_num")
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch %s: %w", table, err)
	}
	defer rows.Close()

	var out []models.YearlyTransactions
	for rows.Next() {
		var y models.YearlyTransactions
		if err := rows.Scan(&y.Year, &y.TotalTransactions); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", table, err)
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

// FetchFAQ returns all FAQ entries.
func (ps *PostgresStore) FetchFAQ() ([]models.FAQEntry, error) {
	rows, err := ps.db.Query("SELECT category, question, answer, source_site FROM car_faq ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch faq: %w", err)
	}
	defer rows.Close()

	var entries []models.FAQEntry
	for rows.Next() {
		var e models.FAQEntry
		if err := rows.Scan(&e.Category, &e.Question, &e.Answer, &e.Site); err != nil {
			return nil, fmt.Errorf("postgres: scan faq: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
