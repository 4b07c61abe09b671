// Package printing contains the Printing bounded context of the club
// dashboard: page profiles, brand styling, the closed set of document
// payloads (receipts, workout and nutrition programs, progress reports)
// and the PrintJob aggregate that records each generated PDF.
package printing
