/*
Package config reads the settings of programs built on enum from the environment,
optionally seeded by .env files.

The Environment a program runs in is itself a closed enumeration, held by Environments.
*/
package config
