// Package models defines the core domain records for the parcel
// administration backend.
//
// # Records
//
//   - User: registered account with a role (admin or parcel owner)
//   - Parcel: a real-estate unit, owned by one or more users
//   - Meter: a utility meter attached to a parcel
//   - MeterReading: an append-only historical reading for a meter
//   - Invoice: a charge issued against a parcel
//   - Payment: a monetary transaction settling an invoice, either via
//     the Webpay gateway or recorded manually by an admin
//
// # Design principles
//
//  1. Relations are expressed as explicit foreign-key id fields, never as
//     embedded records. Related records are fetched by id through the
//     storage layer; eager loading is an explicit query option.
//  2. Records are plain structs with no behavior beyond small predicates.
//     All persistence lives in internal/storage.
package models
