package main

// SQL drivers for --driver postgres and --driver mysql. SQLite is registered
// by the sqlstore package.
import (
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)
