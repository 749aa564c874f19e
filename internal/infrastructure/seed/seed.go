package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/account"
	"github.com/normx-ai/backend/internal/domain/journal"
	"github.com/normx-ai/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// accountSeed describes one account of the starter chart
type accountSeed struct {
	code          string
	label         string
	nature        account.NatureType
	normalBalance account.BalanceSide
}

// starterChart is the minimal OHADA chart a tenant needs to start posting.
// It includes the collective accounts that back counterparty creation; a
// tenant extends it with its own subdivisions afterwards.
var starterChart = []accountSeed{
	// Classe 1 - capitaux
	{"10100000", "Capital social", account.NatureLiability, account.BalanceCredit},
	{"11000000", "Report à nouveau", account.NatureLiability, account.BalanceVariable},
	{"12000000", "Résultat de l'exercice", account.NatureLiability, account.BalanceVariable},
	{"16200000", "Emprunts auprès des établissements de crédit", account.NatureLiability, account.BalanceCredit},

	// Classe 2 - immobilisations
	{"21300000", "Logiciels et sites internet", account.NatureAsset, account.BalanceDebit},
	{"24410000", "Matériel de bureau", account.NatureAsset, account.BalanceDebit},
	{"24420000", "Matériel informatique", account.NatureAsset, account.BalanceDebit},
	{"28440000", "Amortissements du matériel de bureau et informatique", account.NatureAsset, account.BalanceCredit},

	// Classe 3 - stocks
	{"31100000", "Marchandises", account.NatureAsset, account.BalanceDebit},
	{"39100000", "Dépréciations des stocks de marchandises", account.NatureAsset, account.BalanceCredit},

	// Classe 4 - tiers (incluant les comptes collectifs)
	{"40110000", "Fournisseurs locaux", account.NatureLiability, account.BalanceCredit},
	{"40120000", "Fournisseurs groupe", account.NatureLiability, account.BalanceCredit},
	{"40810000", "Fournisseurs, factures non parvenues", account.NatureLiability, account.BalanceCredit},
	{"41110000", "Clients locaux", account.NatureAsset, account.BalanceDebit},
	{"41120000", "Clients groupe", account.NatureAsset, account.BalanceDebit},
	{"41810000", "Clients, factures à établir", account.NatureAsset, account.BalanceDebit},
	{"42100000", "Personnel, rémunérations dues", account.NatureLiability, account.BalanceCredit},
	{"43100000", "Sécurité sociale (CNPS)", account.NatureLiability, account.BalanceCredit},
	{"44310000", "TVA facturée", account.NatureLiability, account.BalanceCredit},
	{"44520000", "TVA récupérable sur achats", account.NatureAsset, account.BalanceDebit},
	{"44710000", "Impôt général sur le revenu", account.NatureLiability, account.BalanceCredit},

	// Classe 5 - trésorerie
	{"52100000", "Banques locales", account.NatureAsset, account.BalanceVariable},
	{"57100000", "Caisse siège social", account.NatureAsset, account.BalanceDebit},
	{"58500000", "Virements de fonds", account.NatureAsset, account.BalanceVariable},

	// Classe 6 - charges
	{"60100000", "Achats de marchandises", account.NatureExpense, account.BalanceDebit},
	{"60500000", "Autres achats", account.NatureExpense, account.BalanceDebit},
	{"61000000", "Transports", account.NatureExpense, account.BalanceDebit},
	{"62200000", "Locations et charges locatives", account.NatureExpense, account.BalanceDebit},
	{"62700000", "Frais bancaires", account.NatureExpense, account.BalanceDebit},
	{"64100000", "Impôts et taxes directs", account.NatureExpense, account.BalanceDebit},
	{"66100000", "Rémunérations directes versées au personnel", account.NatureExpense, account.BalanceDebit},
	{"66400000", "Charges sociales", account.NatureExpense, account.BalanceDebit},
	{"68100000", "Dotations aux amortissements d'exploitation", account.NatureExpense, account.BalanceDebit},

	// Classe 7 - produits
	{"70100000", "Ventes de marchandises", account.NatureIncome, account.BalanceCredit},
	{"70600000", "Services vendus", account.NatureIncome, account.BalanceCredit},
	{"77100000", "Intérêts de prêts", account.NatureIncome, account.BalanceCredit},
}

// journalSeed describes one default journal
type journalSeed struct {
	code  string
	label string
	typ   journal.Type
}

// defaultJournals covers the 14 OHADA journal kinds with one journal each
var defaultJournals = []journalSeed{
	{"AC", "Journal des achats", journal.TypePurchases},
	{"VT", "Journal des ventes", journal.TypeSales},
	{"BQ", "Journal de banque", journal.TypeBank},
	{"CA", "Journal de caisse", journal.TypeCash},
	{"PA", "Journal de paie", journal.TypePayroll},
	{"FI", "Journal fiscal", journal.TypeTax},
	{"SO", "Journal social", journal.TypeSocial},
	{"ST", "Journal des stocks", journal.TypeInventory},
	{"IM", "Journal des immobilisations", journal.TypeFixedAssets},
	{"PR", "Journal des provisions", journal.TypeProvisions},
	{"AN", "Journal des à nouveaux", journal.TypeCarryForward},
	{"CL", "Journal de clôture", journal.TypeClosing},
	{"OD", "Journal des opérations diverses", journal.TypeMisc},
	{"EX", "Journal extra-comptable", journal.TypeOffBooks},
}

// Seeder provisions a new tenant with the starter chart of accounts and
// the default journals. Seeding is idempotent: accounts and journals that
// already exist are left untouched.
type Seeder struct {
	accounts account.AccountRepository
	journals journal.JournalRepository
	logger   *zap.Logger
}

// NewSeeder creates a Seeder over the given repositories
func NewSeeder(accounts account.AccountRepository, journals journal.JournalRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{accounts: accounts, journals: journals, logger: logger}
}

// SeedTenant provisions the tenant with the starter chart and journals
func (s *Seeder) SeedTenant(ctx context.Context, tenantID uuid.UUID) error {
	created, err := s.seedAccounts(ctx, tenantID)
	if err != nil {
		return err
	}
	journalsCreated, err := s.seedJournals(ctx, tenantID)
	if err != nil {
		return err
	}

	s.logger.Info("Tenant seeded",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("accounts_created", created),
		zap.Int("journals_created", journalsCreated),
	)
	return nil
}

func (s *Seeder) seedAccounts(ctx context.Context, tenantID uuid.UUID) (int, error) {
	created := 0
	for _, seed := range starterChart {
		_, err := s.accounts.FindByCode(ctx, tenantID, seed.code)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return created, fmt.Errorf("lookup account %s: %w", seed.code, err)
		}

		a, err := account.NewAccount(tenantID, seed.code, seed.label, seed.nature, seed.normalBalance)
		if err != nil {
			return created, fmt.Errorf("build account %s: %w", seed.code, err)
		}
		if err := s.accounts.Save(ctx, a); err != nil {
			return created, fmt.Errorf("save account %s: %w", seed.code, err)
		}
		created++
	}
	return created, nil
}

func (s *Seeder) seedJournals(ctx context.Context, tenantID uuid.UUID) (int, error) {
	created := 0
	for _, seed := range defaultJournals {
		_, err := s.journals.FindByCode(ctx, tenantID, seed.code)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return created, fmt.Errorf("lookup journal %s: %w", seed.code, err)
		}

		j, err := journal.NewJournal(tenantID, seed.code, seed.label, seed.typ)
		if err != nil {
			return created, fmt.Errorf("build journal %s: %w", seed.code, err)
		}
		if err := s.journals.Save(ctx, j); err != nil {
			return created, fmt.Errorf("save journal %s: %w", seed.code, err)
		}
		created++
	}
	return created, nil
}
