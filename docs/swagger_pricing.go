package docs

// @title           Pricing Service API
// @version         1.0
// @description     Pricing service keeps the tiered fare configuration (range tiers, city rules, surge catalog), quotes trips and streams computed fares.

// @contact.name   API Support

// @host      localhost:3010
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
