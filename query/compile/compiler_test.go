package compile_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/crossql/crossql/ddl"
	"github.com/crossql/crossql/query"
	"github.com/crossql/crossql/query/compile"
	"github.com/crossql/crossql/value"
)

var allDialects = []compile.Dialect{
	compile.Postgres,
	compile.MySQL,
	compile.SQLite,
	compile.Cockroach,
}

// Placeholder count and value count must match on every dialect for the
// same statement.
func TestPlaceholderValueAlignment(t *testing.T) {
	for _, d := range allDialects {
		stmt := query.Select().From("t").Columns(query.C("id")).
			AndWhere(query.C("a").Eq(value.Int(1))).
			AndWhere(query.C("b").In(value.String("x"), value.String("y"))).
			AndWhere(query.C("c").Lt(value.BigInt(10)))

		sqlText, vals, err := compile.Build(stmt, d)
		if err != nil {
			t.Fatalf("%s: %v", d, err)
		}
		want := 4
		if len(vals) != want {
			t.Errorf("%s: %d values, want %d", d, len(vals), want)
		}
		var placeholders int
		if d == compile.Postgres || d == compile.Cockroach {
			placeholders = strings.Count(sqlText, "$")
		} else {
			placeholders = strings.Count(sqlText, "?")
		}
		if placeholders != want {
			t.Errorf("%s: %d placeholders in %q, want %d", d, placeholders, sqlText, want)
		}
	}
}

func mustBuild(t *testing.T, stmt query.Statement, d compile.Dialect) (string, value.Values) {
	t.Helper()
	sqlText, vals, err := compile.Build(stmt, d)
	if err != nil {
		t.Fatalf("Build(%s): %v", d, err)
	}
	return sqlText, vals
}

func TestSelectPerDialect(t *testing.T) {
	build := func() *query.SelectStatement {
		return query.Select().
			From("users").
			Columns(query.C("id"), query.C("email")).
			AndWhere(query.C("age").Ge(value.Int(18))).
			AndWhere(query.C("name").Like("a%")).
			OrderByCol(query.C("id"), true).
			WithLimit(10).
			WithOffset(20)
	}

	tests := []struct {
		dialect compile.Dialect
		want    string
	}{
		{
			dialect: compile.Postgres,
			want:    `SELECT "id", "email" FROM "users" WHERE (("age" >= $1) AND ("name" LIKE $2)) ORDER BY "id" DESC LIMIT 10 OFFSET 20`,
		},
		{
			dialect: compile.MySQL,
			want:    "SELECT `id`, `email` FROM `users` WHERE ((`age` >= ?) AND (`name` LIKE ?)) ORDER BY `id` DESC LIMIT 10 OFFSET 20",
		},
		{
			dialect: compile.SQLite,
			want:    `SELECT "id", "email" FROM "users" WHERE (("age" >= ?) AND ("name" LIKE ?)) ORDER BY "id" DESC LIMIT 10 OFFSET 20`,
		},
		{
			dialect: compile.Cockroach,
			want:    `SELECT "id", "email" FROM "users" WHERE (("age" >= $1) AND ("name" LIKE $2)) ORDER BY "id" DESC LIMIT 10 OFFSET 20`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			sqlText, vals := mustBuild(t, build(), tt.dialect)
			if sqlText != tt.want {
				t.Errorf("got  %s\nwant %s", sqlText, tt.want)
			}
			if len(vals) != 2 {
				t.Errorf("expected 2 bound values, got %d", len(vals))
			}
		})
	}
}

func TestInsertMultiRow(t *testing.T) {
	stmt := query.InsertInto("users").
		Columns("name", "age").
		Values(value.String("ann"), value.Int(30)).
		Values(value.String("bob"), value.Int(25))

	sqlText, vals := mustBuild(t, stmt, compile.Postgres)
	want := `INSERT INTO "users" ("name", "age") VALUES ($1, $2), ($3, $4)`
	if sqlText != want {
		t.Errorf("got  %s\nwant %s", sqlText, want)
	}

	// Values are aligned row-major with the placeholders.
	wantArgs := []any{"ann", int32(30), "bob", int32(25)}
	args := vals.Args()
	for i, a := range wantArgs {
		if args[i] != a {
			t.Errorf("args[%d] = %v, want %v", i, args[i], a)
		}
	}
}

func TestInsertReturning(t *testing.T) {
	build := func() *query.InsertStatement {
		return query.InsertInto("users").
			Columns("name").
			Values(value.String("ann")).
			ReturningCols(query.C("id"))
	}

	sqlText, _ := mustBuild(t, build(), compile.Postgres)
	if !strings.HasSuffix(sqlText, ` RETURNING "id"`) {
		t.Errorf("missing RETURNING clause: %s", sqlText)
	}

	// MySQL has no RETURNING; the compiler refuses rather than emitting
	// broken SQL.
	_, _, err := compile.Build(build(), compile.MySQL)
	var ufe *compile.UnsupportedFeatureError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFeatureError, got %v", err)
	}
	if ufe.Dialect != compile.MySQL {
		t.Errorf("error names dialect %s", ufe.Dialect)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	upd := query.Update("users").
		Set("name", value.String("zed")).
		SetExpr("updated_at", query.Now()).
		AndWhere(query.C("id").Eq(value.BigInt(7)))

	sqlText, vals := mustBuild(t, upd, compile.Postgres)
	want := `UPDATE "users" SET "name" = $1, "updated_at" = NOW() WHERE ("id" = $2)`
	if sqlText != want {
		t.Errorf("got  %s\nwant %s", sqlText, want)
	}
	if len(vals) != 2 {
		t.Errorf("expected 2 values, got %d", len(vals))
	}

	del := query.DeleteFrom("users").AndWhere(query.C("id").Eq(value.BigInt(7)))
	sqlText, vals = mustBuild(t, del, compile.MySQL)
	if sqlText != "DELETE FROM `users` WHERE (`id` = ?)" {
		t.Errorf("got %s", sqlText)
	}
	if len(vals) != 1 {
		t.Errorf("expected 1 value, got %d", len(vals))
	}
}

func TestNowTranslation(t *testing.T) {
	stmt := query.Select().From("t").Expr(query.Now())

	sqlText, _ := mustBuild(t, stmt, compile.SQLite)
	if !strings.Contains(sqlText, "datetime('now')") {
		t.Errorf("sqlite NOW not translated: %s", sqlText)
	}

	stmt = query.Select().From("t").Expr(query.Now())
	sqlText, _ = mustBuild(t, stmt, compile.Postgres)
	if !strings.Contains(sqlText, "NOW()") {
		t.Errorf("postgres NOW wrong: %s", sqlText)
	}
}

func TestInListBinding(t *testing.T) {
	stmt := query.Select().From("t").Columns(query.C("id")).
		AndWhere(query.C("id").In(value.Int(1), value.Int(2), value.Int(3)))

	sqlText, vals := mustBuild(t, stmt, compile.Postgres)
	want := `SELECT "id" FROM "t" WHERE ("id" IN ($1, $2, $3))`
	if sqlText != want {
		t.Errorf("got  %s\nwant %s", sqlText, want)
	}
	if len(vals) != 3 {
		t.Errorf("expected 3 values, got %d", len(vals))
	}
}

func TestSubqueryPlaceholderNumbering(t *testing.T) {
	// The subquery shares the outer statement's placeholder counter, so
	// positional alignment holds across nesting.
	sub := query.Select().From("orders").Columns(query.C("user_id")).
		AndWhere(query.C("total").Gt(value.Int(100)))
	stmt := query.Select().From("users").Columns(query.C("id")).
		AndWhere(query.C("active").Eq(value.Bool(true))).
		AndWhere(query.C("id").InSubquery(sub))

	sqlText, vals := mustBuild(t, stmt, compile.Postgres)
	want := `SELECT "id" FROM "users" WHERE (("active" = $1) AND ("id" IN (SELECT "user_id" FROM "orders" WHERE ("total" > $2))))`
	if sqlText != want {
		t.Errorf("got  %s\nwant %s", sqlText, want)
	}
	args := vals.Args()
	if len(args) != 2 || args[0] != true || args[1] != int32(100) {
		t.Errorf("args misaligned: %v", args)
	}
}

func TestExists(t *testing.T) {
	sub := query.Select().From("orders").
		AndWhere(query.TC("orders", "user_id").EqCol(query.TC("users", "id")))
	stmt := query.Select().From("users").Columns(query.C("id")).
		AndWhere(query.NotExists(sub))

	sqlText, _ := mustBuild(t, stmt, compile.Postgres)
	if !strings.Contains(sqlText, `NOT EXISTS (SELECT * FROM "orders"`) {
		t.Errorf("got %s", sqlText)
	}
}

func TestJoin(t *testing.T) {
	stmt := query.Select().From("users").
		Columns(query.TC("users", "id"), query.TC("orders", "total")).
		Join("orders", query.TC("orders", "user_id").EqCol(query.TC("users", "id")))

	sqlText, _ := mustBuild(t, stmt, compile.Postgres)
	want := `SELECT "users"."id", "orders"."total" FROM "users" INNER JOIN "orders" ON ("orders"."user_id" = "users"."id")`
	if sqlText != want {
		t.Errorf("got  %s\nwant %s", sqlText, want)
	}
}

func TestAsOfSystemTime(t *testing.T) {
	build := func() *query.SelectStatement {
		return query.Select().From("t").Columns(query.C("id")).AsOf("'-10s'")
	}

	sqlText, _ := mustBuild(t, build(), compile.Cockroach)
	if !strings.Contains(sqlText, `FROM "t" AS OF SYSTEM TIME '-10s'`) {
		t.Errorf("got %s", sqlText)
	}

	for _, d := range []compile.Dialect{compile.Postgres, compile.MySQL, compile.SQLite} {
		_, _, err := compile.Build(build(), d)
		var ufe *compile.UnsupportedFeatureError
		if !errors.As(err, &ufe) {
			t.Errorf("%s: expected UnsupportedFeatureError, got %v", d, err)
		}
	}
}

func TestCreateTablePerDialect(t *testing.T) {
	length := 100
	def := "pending"
	build := func() *query.CreateTableStatement {
		return query.CreateTable("jobs").
			Column(ddl.ColumnDefinition{Name: "id", Type: ddl.BigintType, PrimaryKey: true}).
			Column(ddl.ColumnDefinition{Name: "title", Type: ddl.StringType, Length: &length}).
			Column(ddl.ColumnDefinition{Name: "status", Type: ddl.TextType, Default: &def}).
			Column(ddl.ColumnDefinition{Name: "payload", Type: ddl.JSONType, Nullable: true}).
			Column(ddl.ColumnDefinition{Name: "created_at", Type: ddl.TimestampType})
	}

	tests := []struct {
		dialect compile.Dialect
		want    string
	}{
		{
			dialect: compile.Postgres,
			want:    `CREATE TABLE "jobs" ("id" BIGINT PRIMARY KEY, "title" VARCHAR(100) NOT NULL, "status" TEXT NOT NULL DEFAULT 'pending', "payload" JSONB, "created_at" TIMESTAMP WITH TIME ZONE NOT NULL)`,
		},
		{
			dialect: compile.MySQL,
			want:    "CREATE TABLE `jobs` (`id` BIGINT PRIMARY KEY, `title` VARCHAR(100) NOT NULL, `status` TEXT NOT NULL DEFAULT 'pending', `payload` JSON, `created_at` DATETIME(6) NOT NULL)",
		},
		{
			dialect: compile.SQLite,
			want:    `CREATE TABLE "jobs" ("id" INTEGER PRIMARY KEY, "title" TEXT NOT NULL, "status" TEXT NOT NULL DEFAULT 'pending', "payload" TEXT, "created_at" TEXT NOT NULL)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			sqlText, _ := mustBuild(t, build(), tt.dialect)
			if sqlText != tt.want {
				t.Errorf("got  %s\nwant %s", sqlText, tt.want)
			}
		})
	}
}

func TestCreateTableEmitsIndexes(t *testing.T) {
	build := func() *query.CreateTableStatement {
		return query.CreateTable("jobs").
			Column(ddl.ColumnDefinition{Name: "id", Type: ddl.BigintType, PrimaryKey: true}).
			Column(ddl.ColumnDefinition{Name: "status", Type: ddl.TextType}).
			Column(ddl.ColumnDefinition{Name: "ref", Type: ddl.TextType}).
			Index(ddl.IndexDefinition{Name: "jobs_status_idx", Columns: []string{"status"}}).
			Index(ddl.IndexDefinition{Columns: []string{"ref"}, Unique: true})
	}

	tests := []struct {
		dialect compile.Dialect
		want    string
	}{
		{
			dialect: compile.Postgres,
			want: `CREATE TABLE "jobs" ("id" BIGINT PRIMARY KEY, "status" TEXT NOT NULL, "ref" TEXT NOT NULL); ` +
				`CREATE INDEX "jobs_status_idx" ON "jobs" ("status"); ` +
				`CREATE UNIQUE INDEX "idx_jobs_ref" ON "jobs" ("ref")`,
		},
		{
			dialect: compile.MySQL,
			want: "CREATE TABLE `jobs` (`id` BIGINT PRIMARY KEY, `status` TEXT NOT NULL, `ref` TEXT NOT NULL); " +
				"CREATE INDEX `jobs_status_idx` ON `jobs` (`status`); " +
				"CREATE UNIQUE INDEX `idx_jobs_ref` ON `jobs` (`ref`)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			sqlText, _ := mustBuild(t, build(), tt.dialect)
			if sqlText != tt.want {
				t.Errorf("got  %s\nwant %s", sqlText, tt.want)
			}
		})
	}
}

func TestCreateTableLocality(t *testing.T) {
	build := func() *query.CreateTableStatement {
		return query.CreateTable("users").
			Column(ddl.ColumnDefinition{Name: "id", Type: ddl.UUIDType, PrimaryKey: true}).
			WithLocality(query.LocalityRegionalByRow)
	}

	sqlText, _ := mustBuild(t, build(), compile.Cockroach)
	if !strings.HasSuffix(sqlText, " LOCALITY REGIONAL BY ROW") {
		t.Errorf("got %s", sqlText)
	}

	_, _, err := compile.Build(build(), compile.Postgres)
	var ufe *compile.UnsupportedFeatureError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFeatureError, got %v", err)
	}
}

func TestAlterTableOperations(t *testing.T) {
	nullable := true
	stmt := query.AlterTable("users").
		AddColumn(ddl.ColumnDefinition{Name: "bio", Type: ddl.TextType, Nullable: nullable}).
		RenameColumn("bio", "about").
		DropColumn("legacy")

	sqlText, _ := mustBuild(t, stmt, compile.Postgres)
	want := `ALTER TABLE "users" ADD COLUMN "bio" TEXT; ` +
		`ALTER TABLE "users" RENAME COLUMN "bio" TO "about"; ` +
		`ALTER TABLE "users" DROP COLUMN "legacy"`
	if sqlText != want {
		t.Errorf("got  %s\nwant %s", sqlText, want)
	}
}

func TestChangeTypePerDialect(t *testing.T) {
	build := func() *query.AlterTableStatement {
		return query.AlterTable("t").ChangeType("n", "BIGINT")
	}

	sqlText, _ := mustBuild(t, build(), compile.Postgres)
	if sqlText != `ALTER TABLE "t" ALTER COLUMN "n" TYPE BIGINT` {
		t.Errorf("postgres got %s", sqlText)
	}

	sqlText, _ = mustBuild(t, build(), compile.MySQL)
	if sqlText != "ALTER TABLE `t` MODIFY COLUMN `n` BIGINT" {
		t.Errorf("mysql got %s", sqlText)
	}

	_, _, err := compile.Build(build(), compile.SQLite)
	var ufe *compile.UnsupportedFeatureError
	if !errors.As(err, &ufe) {
		t.Fatalf("sqlite: expected UnsupportedFeatureError, got %v", err)
	}
}

func TestChangeNullable(t *testing.T) {
	build := func(nullable bool) *query.AlterTableStatement {
		return query.AlterTable("t").ChangeNullable("c", nullable)
	}

	sqlText, _ := mustBuild(t, build(false), compile.Postgres)
	if sqlText != `ALTER TABLE "t" ALTER COLUMN "c" SET NOT NULL` {
		t.Errorf("postgres got %s", sqlText)
	}
	sqlText, _ = mustBuild(t, build(true), compile.Postgres)
	if sqlText != `ALTER TABLE "t" ALTER COLUMN "c" DROP NOT NULL` {
		t.Errorf("postgres got %s", sqlText)
	}

	sqlText, _ = mustBuild(t, build(false), compile.MySQL)
	if sqlText != "ALTER TABLE `t` MODIFY COLUMN `c` TEXT NOT NULL" {
		t.Errorf("mysql got %s", sqlText)
	}
}

func TestDropTableBehavior(t *testing.T) {
	stmt := query.DropTable("t").IfExistsOpt().CascadeOpt()
	sqlText, _ := mustBuild(t, stmt, compile.Postgres)
	if sqlText != `DROP TABLE IF EXISTS "t" CASCADE` {
		t.Errorf("got %s", sqlText)
	}

	_, _, err := compile.Build(query.DropTable("t").CascadeOpt(), compile.SQLite)
	var ufe *compile.UnsupportedFeatureError
	if !errors.As(err, &ufe) {
		t.Fatalf("sqlite CASCADE: expected UnsupportedFeatureError, got %v", err)
	}
}

func TestSchemaStatements(t *testing.T) {
	stmt := query.CreateSchema("analytics").IfNotExistsOpt()
	sqlText, _ := mustBuild(t, stmt, compile.Postgres)
	if sqlText != `CREATE SCHEMA IF NOT EXISTS "analytics"` {
		t.Errorf("got %s", sqlText)
	}

	_, _, err := compile.Build(query.CreateSchema("s"), compile.SQLite)
	var ufe *compile.UnsupportedFeatureError
	if !errors.As(err, &ufe) {
		t.Fatalf("sqlite schema: expected UnsupportedFeatureError, got %v", err)
	}
}

func TestSequenceStatements(t *testing.T) {
	stmt := query.CreateSequence("order_seq").StartWith(100).IncrementBy(5)

	sqlText, _ := mustBuild(t, stmt, compile.Postgres)
	if sqlText != `CREATE SEQUENCE "order_seq" INCREMENT BY 5 START WITH 100` {
		t.Errorf("got %s", sqlText)
	}

	for _, d := range []compile.Dialect{compile.MySQL, compile.SQLite} {
		_, _, err := compile.Build(query.CreateSequence("s"), d)
		var ufe *compile.UnsupportedFeatureError
		if !errors.As(err, &ufe) {
			t.Errorf("%s sequence: expected UnsupportedFeatureError, got %v", d, err)
		}
	}
}

func TestEnumType(t *testing.T) {
	stmt := query.CreateType("mood").AsEnum("happy", "sad", "it's complicated")
	sqlText, _ := mustBuild(t, stmt, compile.Postgres)
	want := `CREATE TYPE "mood" AS ENUM ('happy', 'sad', 'it''s complicated')`
	if sqlText != want {
		t.Errorf("got  %s\nwant %s", sqlText, want)
	}
}

func TestCreateView(t *testing.T) {
	sel := query.Select().From("users").Columns(query.C("id"), query.C("email")).
		AndWhere(query.C("active").Eq(value.Bool(true)))
	stmt := query.CreateView("active_users").OrReplaceOpt().AsSelect(sel)

	sqlText, vals := mustBuild(t, stmt, compile.Postgres)
	want := `CREATE OR REPLACE VIEW "active_users" AS SELECT "id", "email" FROM "users" WHERE ("active" = $1)`
	if sqlText != want {
		t.Errorf("got  %s\nwant %s", sqlText, want)
	}
	if len(vals) != 1 {
		t.Errorf("expected 1 bound value, got %d", len(vals))
	}
}

func TestMaterializedViews(t *testing.T) {
	sel := query.Select().From("orders").Columns(query.C("user_id"))
	build := func() *query.CreateMaterializedViewStatement {
		return query.CreateMaterializedView("order_summary").AsSelect(sel)
	}

	sqlText, _ := mustBuild(t, build(), compile.Postgres)
	if !strings.HasSuffix(sqlText, " WITH DATA") {
		t.Errorf("got %s", sqlText)
	}

	for _, d := range []compile.Dialect{compile.MySQL, compile.SQLite} {
		_, _, err := compile.Build(build(), d)
		var ufe *compile.UnsupportedFeatureError
		if !errors.As(err, &ufe) {
			t.Errorf("%s: expected UnsupportedFeatureError, got %v", d, err)
		}
	}

	refresh := query.RefreshMaterializedView("order_summary").ConcurrentlyOpt()
	sqlText, _ = mustBuild(t, refresh, compile.Cockroach)
	if sqlText != `REFRESH MATERIALIZED VIEW CONCURRENTLY "order_summary"` {
		t.Errorf("got %s", sqlText)
	}
}

func TestIdentifierQuoting(t *testing.T) {
	tests := []struct {
		dialect compile.Dialect
		ident   string
		want    string
	}{
		{compile.Postgres, "users", `"users"`},
		{compile.Postgres, `we"ird`, `"we""ird"`},
		{compile.Postgres, "app.users", `"app"."users"`},
		{compile.MySQL, "users", "`users`"},
		{compile.MySQL, "we`ird", "`we``ird`"},
		{compile.MySQL, "app.users", "`app`.`users`"},
		{compile.SQLite, "users", `"users"`},
	}
	for _, tt := range tests {
		if got := tt.dialect.QuoteIdent(tt.ident); got != tt.want {
			t.Errorf("%s QuoteIdent(%q) = %s, want %s", tt.dialect, tt.ident, got, tt.want)
		}
	}
}

func TestValidationRunsBeforeCompilation(t *testing.T) {
	stmt := query.Select() // no table
	_, _, err := compile.Build(stmt, compile.Postgres)
	var vErr *query.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *query.ValidationError, got %v", err)
	}
}

func TestUnsupportedFeatureErrorMessage(t *testing.T) {
	_, _, err := compile.Build(query.CreateSequence("s"), compile.SQLite)
	if err == nil || !strings.Contains(err.Error(), "sqlite") || !strings.Contains(err.Error(), "CREATE SEQUENCE") {
		t.Errorf("error should name dialect and feature: %v", err)
	}
}

func TestBoolLiteral(t *testing.T) {
	for _, tt := range []struct {
		d       compile.Dialect
		v       bool
		want    string
	}{
		{compile.Postgres, true, "TRUE"},
		{compile.Postgres, false, "FALSE"},
		{compile.MySQL, true, "1"},
		{compile.SQLite, false, "0"},
		{compile.Cockroach, true, "TRUE"},
	} {
		if got := tt.d.BoolLiteral(tt.v); got != tt.want {
			t.Errorf("%s BoolLiteral(%v) = %s, want %s", tt.d, tt.v, got, tt.want)
		}
	}
}
