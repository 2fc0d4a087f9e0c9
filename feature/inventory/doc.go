// Package inventory implements the product catalog feature.
//
// It owns the CRUD surface of the products table: registering new products,
// paginated and search listings for the storefront, partial edits and
// deletion. Stock movements caused by billing go through the reconciliation
// engine instead; this package only touches quantity as an absolute value
// set by the operator.
//
// # Components
//
//   - Service: catalog queries and mutations.
//   - Handler: exposes the product endpoints.
//   - Feature: registers the feature with the application loader.
//
// # HTTP Endpoints
//
//   - POST   /product/addProducts        : Register a new product.
//   - GET    /product/getProducts        : Paginated product listing.
//   - GET    /product/getProductBySearch : Name search across the catalog.
//   - POST   /product/editProducts/:id   : Partially update a product.
//   - DELETE /product/deleteProducts/:id : Remove a product.
package inventory
