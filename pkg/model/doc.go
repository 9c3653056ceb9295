// Package model defines the database models for the signatories API.
//
// # Database Schema
//
//   - signatories: people who sign a certificate, ordered by id within a
//     certificate
package model
