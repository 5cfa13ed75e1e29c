package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/crossql/crossql/backend"
	"github.com/crossql/crossql/config"
	"github.com/crossql/crossql/dburl"
	"github.com/crossql/crossql/logging"
	"github.com/crossql/crossql/pool"
	"github.com/crossql/crossql/twophase"
)

func loadConfig(path string) *config.Config {
	if path == "" {
		path = config.DefaultFileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatalErr("load configuration", err)
	}
	if cfg.DatabaseURL == "" {
		fatal("no [database] url configured")
	}
	return cfg
}

func openPool(cfg *config.Config) *pool.Pool {
	p, err := pool.New(cfg.DatabaseURL, cfg.Pool, logging.ProdLogger)
	if err != nil {
		fatalErr("open pool", err)
	}
	return p
}

func pingCmd(cfgPath string) {
	cfg := loadConfig(cfgPath)
	p := openPool(cfg)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	conn, err := p.Acquire(ctx)
	if err != nil {
		fatalErr("acquire connection", err)
	}
	err = conn.Ping(ctx)
	p.Release(conn)
	if err != nil {
		fatalErr("ping", err)
	}
	fmt.Printf("%s ok (%s)\n", p.Dialect(), time.Since(start).Round(time.Millisecond))
}

func execCmd(cfgPath, sqlText string) {
	cfg := loadConfig(cfgPath)
	p := openPool(cfg)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := p.Acquire(ctx)
	if err != nil {
		fatalErr("acquire connection", err)
	}
	defer p.Release(conn)

	if isQuery(sqlText) {
		rows, err := conn.FetchAll(ctx, sqlText, nil)
		if err != nil {
			fatalErr("query", err)
		}
		printRows(rows)
		return
	}

	res, err := conn.Execute(ctx, sqlText, nil)
	if err != nil {
		fatalErr("execute", err)
	}
	fmt.Printf("%d row(s) affected\n", res.RowsAffected)
}

// isQuery decides between the fetch and execute paths. Statements the
// driver treats as queries but that start differently (EXPLAIN, SHOW)
// are covered too.
func isQuery(sqlText string) bool {
	fields := strings.Fields(sqlText)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "SHOW", "EXPLAIN", "WITH", "VALUES", "TABLE":
		return true
	}
	return false
}

func printRows(rows []backend.Row) {
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return
	}
	fmt.Println(strings.Join(rows[0].Columns(), "\t"))
	for _, row := range rows {
		cells := make([]string, row.Len())
		for i := range cells {
			v := row.Index(i)
			if v == nil {
				cells[i] = "NULL"
				continue
			}
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			cells[i] = fmt.Sprint(v)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	fmt.Printf("(%d row(s))\n", len(rows))
}

func recoverCmd(cfgPath string) {
	cfg := loadConfig(cfgPath)
	if len(cfg.Participants) == 0 {
		fatal("no [twophase] participants configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	logger := logging.ProdLogger

	var participants []twophase.Participant
	for _, pc := range cfg.Participants {
		dialect, err := dburl.InferDialect(pc.URL)
		if err != nil {
			fatalErr(pc.Name, err)
		}
		db, err := backend.Open(pc.URL, logger)
		if err != nil {
			fatalErr(pc.Name, err)
		}
		defer db.Close()
		conn, err := db.Conn(ctx)
		if err != nil {
			fatalErr(pc.Name, err)
		}
		defer conn.Close()

		switch dialect {
		case dburl.DialectPostgres:
			participants = append(participants, twophase.NewPostgresParticipant(pc.Name, conn))
		case dburl.DialectMySQL:
			participants = append(participants, twophase.NewMySQLParticipant(pc.Name, conn, ""))
		default:
			fatal(fmt.Sprintf("%s: dialect %s has no prepared transactions", pc.Name, dialect))
		}
	}

	report, err := twophase.Recover(ctx, participants...)
	if err != nil {
		fatalErr("recover", err)
	}

	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0
	for _, name := range names {
		for _, xid := range report[name] {
			fmt.Printf("%s\t%s\n", name, xid)
			total++
		}
	}
	if total == 0 {
		fmt.Println("no in-doubt transactions")
		return
	}
	fmt.Fprintf(os.Stderr, "%d in-doubt transaction(s); resolve with COMMIT PREPARED / ROLLBACK PREPARED or XA COMMIT / XA ROLLBACK\n", total)
}
