package services

// ServiceContainer holds instances of all the application services.
// It is built once at startup and handed to the handlers.
type ServiceContainer struct {
	Cycle              CycleSvcFacade
	Group              GroupSvcFacade
	Membership         MembershipSvcFacade
	Ledger             LedgerSvcFacade
	Capital            CapitalSvcFacade
	Sharing            SharingSvcFacade
	Meeting            MeetingSvcFacade
	Formation          FormationSvcFacade
	Evaluation         EvaluationSvcFacade
	Reporting          ReportingSvcFacade
	User               UserSvcFacade
	TokenService       TokenSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
}
