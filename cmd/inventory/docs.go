package main

// @title Commodity Tracker API
// @version 1.0
// @description Inventory dashboard API for commodities, stock movements, alerts and statistics
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8082
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Session endpoints

// @tag.name Commodities
// @tag.description Commodity catalogue and trend

// @tag.name Movements
// @tag.description Stock movement ledger

// @tag.name Alerts
// @tag.description Low and critical stock alerts

// @tag.name Dashboard
// @tag.description Dashboard statistics

// @tag.name Health
// @tag.description Health check endpoints
