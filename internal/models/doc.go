// Package models defines the data shared between the session, import and chart layers of sentix.
//
// The package contains three groups of types:
//
// 1. Identity
//   - [User] : the authenticated user as reported by the backend profile endpoint
//
// 2. Upload inputs
//   - [Format] : declared file format, which selects the backend import endpoint
//   - [SelectedFile] : a validated file waiting to be uploaded
//
// 3. Upload outputs
//   - [Category] : one of the five fixed sentiment buckets, see [Categories] for canonical order
//   - [Counts] : the backend's category -> count mapping, kept verbatim
//   - [ImportResult] : counts plus metadata about the upload that produced them
package models
