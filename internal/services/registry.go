package services

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	Category *CategoryService
	Lookup   *LookupService
	Property *PropertyService
	Auth     *AuthService
	User     *UserService
	Chat     *ChatService
	Payment  *PaymentService
	Catalog  *CatalogService
}
