// Package timezone pins wall-clock reads and renders to the configured APP_TIMEZONE.
//
// Audit timestamps come from Now and are rendered with Format. Booking dates are civil
// days: Day reads a client value in the application timezone and keeps only the date,
// stored as midnight UTC so a DATE column round-trips unchanged.
//
// Names must come from the IANA database ("UTC", "Asia/Jakarta"). An unknown or empty
// name falls back to UTC with a warning.
package timezone
