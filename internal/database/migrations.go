package database

// SQL migrations for the finance tracker database.
// All migrations use IF NOT EXISTS to be idempotent.
// Money is stored as TEXT holding an exact decimal, dates as YYYY-MM-DD TEXT.

const migrationUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const migrationLoans = `
CREATE TABLE IF NOT EXISTS loans (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    principal TEXT NOT NULL,
    initial_principal TEXT NOT NULL,
    interest_rate TEXT NOT NULL,
    signing_date TEXT NOT NULL,
    accrued_interest TEXT NOT NULL DEFAULT '0',
    last_calculated_date TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const migrationLoanRepayments = `
CREATE TABLE IF NOT EXISTS loan_repayments (
    loan_id INTEGER PRIMARY KEY REFERENCES loans(id) ON DELETE CASCADE,
    repaid_principal TEXT NOT NULL DEFAULT '0'
);
`

// loan_id carries no foreign key: a commitment may outlive its loan and is
// then reported as a dangling reference by the materializer.
const migrationRecurringCommitments = `
CREATE TABLE IF NOT EXISTS recurring_commitments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    next_due_date TEXT NOT NULL,
    category TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('Income', 'Expense')),
    amount TEXT NOT NULL,
    frequency TEXT NOT NULL,
    loan_id INTEGER,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const migrationLedgerEntries = `
CREATE TABLE IF NOT EXISTS ledger_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    entry_date TEXT NOT NULL,
    category TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('Income', 'Expense')),
    amount TEXT NOT NULL,
    loan_id INTEGER,
    commitment_id INTEGER REFERENCES recurring_commitments(id) ON DELETE SET NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(commitment_id, entry_date)
);
`

const migrationPortfolioLots = `
CREATE TABLE IF NOT EXISTS portfolio_lots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    symbol TEXT NOT NULL,
    company_name TEXT NOT NULL,
    purchase_price TEXT NOT NULL,
    quantity TEXT NOT NULL,
    purchase_date TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const migrationAssets = `
CREATE TABLE IF NOT EXISTS assets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    purchase_price TEXT NOT NULL,
    year_of_purchase INTEGER NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const migrationNetWorthHistory = `
CREATE TABLE IF NOT EXISTS net_worth_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    sample_date TEXT NOT NULL,
    net_worth TEXT NOT NULL,
    UNIQUE(user_id, sample_date)
);
`

const migrationRefreshRuns = `
CREATE TABLE IF NOT EXISTS refresh_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT UNIQUE NOT NULL,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    status TEXT NOT NULL,
    entries_materialized INTEGER DEFAULT 0,
    symbols_pruned INTEGER DEFAULT 0,
    error_message TEXT,
    started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    completed_at DATETIME,
    duration_ms INTEGER
);
`

const migrationIndexes = `
CREATE INDEX IF NOT EXISTS idx_ledger_entries_user_date ON ledger_entries(user_id, entry_date);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_loan ON ledger_entries(loan_id);
CREATE INDEX IF NOT EXISTS idx_commitments_user ON recurring_commitments(user_id);
CREATE INDEX IF NOT EXISTS idx_commitments_loan ON recurring_commitments(loan_id);
CREATE INDEX IF NOT EXISTS idx_loans_user ON loans(user_id);
CREATE INDEX IF NOT EXISTS idx_portfolio_lots_user_symbol ON portfolio_lots(user_id, symbol);
CREATE INDEX IF NOT EXISTS idx_assets_user ON assets(user_id);
CREATE INDEX IF NOT EXISTS idx_net_worth_history_user ON net_worth_history(user_id, sample_date);
CREATE INDEX IF NOT EXISTS idx_refresh_runs_user ON refresh_runs(user_id, started_at);
`
