/*
Package postgres stores closed enumerations in PostgreSQL through GORM.

Connect opens the database and runs migrations; the situation where the database is simply a target
for some testing has been considered as well, in which case the public schema is dropped first.

SyncType mirrors a closed enumeration type as a native ENUM type whose labels are the member names,
and SyncMigration lets that happen as part of MigrateUp. Column is the model field type storing
a value in such a column.
*/
package postgres
