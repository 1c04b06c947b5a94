package models

// Mongo collection names.
const (
	CollectionCategories      = "categories"
	CollectionSubcategories   = "subcategories"
	CollectionProperties      = "properties"
	CollectionUsers           = "users"
	CollectionConversations   = "conversations"
	CollectionMessages        = "messages"
	CollectionPackages        = "packages"
	CollectionTransactions    = "transactions"
	CollectionBanners         = "banners"
	CollectionWebhookFailures = "webhook_failures"
)
