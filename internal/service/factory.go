package service

import (
	"propbill.app/server/core/config"
	"propbill.app/server/internal/ai"
	"propbill.app/server/internal/blob"
	"propbill.app/server/internal/extract"
	"propbill.app/server/internal/gmail"
	"propbill.app/server/internal/store"
)

type Services struct {
	stores    *store.Stores
	txRunner  TxRunner
	blobs     blob.Store
	extractor extract.Extractor
	fields    ai.FieldExtractor
	clients   gmail.ClientFactory
	googleCfg config.GoogleConfig
	jwtCfg    config.JWTConfig
}

func NewServices(
	stores *store.Stores,
	txRunner TxRunner,
	blobs blob.Store,
	extractor extract.Extractor,
	fields ai.FieldExtractor,
	clients gmail.ClientFactory,
	googleCfg config.GoogleConfig,
	jwtCfg config.JWTConfig,
) *Services {
	return &Services{
		stores:    stores,
		txRunner:  txRunner,
		blobs:     blobs,
		extractor: extractor,
		fields:    fields,
		clients:   clients,
		googleCfg: googleCfg,
		jwtCfg:    jwtCfg,
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.googleCfg, s.jwtCfg)
}

func (s *Services) Workspaces() WorkspaceService {
	return NewWorkspaceService(s.stores.Workspaces(), s.stores.Suppliers(), s.stores.Invoices())
}

func (s *Services) Suppliers() SupplierService {
	return NewSupplierService(s.stores.Workspaces(), s.stores.Suppliers(), s.stores.Invoices(), s.txRunner)
}

func (s *Services) Documents() DocumentService {
	return NewDocumentService(
		s.stores.Workspaces(),
		s.stores.Documents(),
		s.stores.Suppliers(),
		s.blobs,
		s.extractor,
		s.fields,
		s.txRunner,
	)
}

func (s *Services) Invoices() InvoiceService {
	return NewInvoiceService(s.stores.Workspaces(), s.stores.Invoices(), s.blobs)
}

func (s *Services) Gmail() GmailService {
	return NewGmailService(
		s.stores.Users(),
		s.stores.Workspaces(),
		s.stores.Suppliers(),
		s.stores.ProcessedEmails(),
		s.blobs,
		s.clients,
		s.txRunner,
	)
}

func (s *Services) Consolidated() ConsolidatedService {
	return NewConsolidatedService(s.stores.Workspaces(), s.stores.Invoices())
}

func (s *Services) Search() SearchService {
	return NewSearchService(s.stores.Workspaces(), s.stores.Suppliers(), s.stores.Documents(), s.stores.Invoices())
}
