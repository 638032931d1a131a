// Package models contains GORM persistence models for the tables the
// intelligence queries read: products, website_products, customers, orders
// and order_line_items.
//
// The tables are owned by the catalogue and order services. These models are
// used for read queries through GORM, for AutoMigrate in tests, and for
// seeding integration databases. Nothing in this service writes to them in
// production.
package models
