// Package repository define las entidades y los contratos de persistencia.
//
// Las implementaciones viven en internal/store/pg (PostgreSQL, pgx) e
// internal/store/memory (en proceso, usada en tests y en modo dev).
//
//	services ──► repository (interfaces) ──► store/pg | store/memory
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - "No existe" se reporta con ErrNotFound, duplicados con ErrConflict.
//   - Las operaciones de consumo (códigos OTP, refresh tokens) son
//     delete-returning atómicos: la validación ES el borrado.
package repository
