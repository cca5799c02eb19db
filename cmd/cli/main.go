package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nickyhof/ifxsql"
	"github.com/nickyhof/ifxsql/config"
	"github.com/nickyhof/ifxsql/contrib/metrics/vm"
	"github.com/nickyhof/ifxsql/db"
	"github.com/nickyhof/ifxsql/duck"
	"github.com/nickyhof/ifxsql/internal/logging"
	"github.com/nickyhof/ifxsql/remote"
	"github.com/nickyhof/ifxsql/script"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

// CLI holds the CLI state
type CLI struct {
	env         *db.Environment
	conn        *db.Connection
	cfg         *config.Config
	out         io.Writer
	history     []string
	historyFile string
	database    string // current database context
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	server := flag.String("server", "", "Server name (overrides INFORMIXSERVER)")
	database := flag.String("database", "", "Database to connect to")
	user := flag.String("user", "", "User name")
	password := flag.String("password", "", "Password")
	dataDir := flag.String("dataDir", "", "Directory for database files (memory when empty)")
	sqlFile := flag.String("sqlFile", "", "SQL script to execute (non-interactive)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		cfg = loaded
	}
	applyFlags(cfg, *server, *database, *user, *password, *dataDir, *debug)

	printBanner()

	if cfg.Engine.DataDir == "" {
		fmt.Printf("%sUsing in-memory databases%s\n", SuccessColor, ResetColor)
	} else {
		fmt.Printf("%sUsing database files in: %s%s\n", SuccessColor, cfg.Engine.DataDir, ResetColor)
	}

	instance := ifxsql.OpenDuck(duck.WithDataDir(cfg.Engine.DataDir), duck.WithTextLength(cfg.Engine.TextLength))
	defer instance.Close()

	env, err := instance.Environment(environmentOptions(cfg)...)
	if err != nil {
		fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
		os.Exit(1)
	}
	defer env.Close()

	cli := &CLI{
		env:         env,
		cfg:         cfg,
		out:         os.Stdout,
		history:     make([]string, 0),
		historyFile: getHistoryPath(),
	}

	if cfg.Server.Database != "" {
		if err := cli.connect(cfg.Server.Database); err != nil {
			fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
	}

	cli.loadHistory()

	// Execute SQL file if provided
	if *sqlFile != "" {
		if err := cli.importFile(*sqlFile); err != nil {
			fmt.Printf("%sError importing file: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		return
	}

	cli.run()
}

// applyFlags lets command-line flags override the configuration file.
func applyFlags(cfg *config.Config, server, database, user, password, dataDir string, debug bool) {
	if server != "" {
		cfg.Server.Name = server
	}
	if database != "" {
		cfg.Server.Database = database
	}
	if user != "" {
		cfg.Server.User = user
	}
	if password != "" {
		cfg.Server.Password = password
	}
	if dataDir != "" {
		cfg.Engine.DataDir = dataDir
	}
	if debug {
		cfg.Logging.Debug = true
	}
}

func environmentOptions(cfg *config.Config) []db.Option {
	opts := []db.Option{
		db.WithLogger(logging.NewTextLogger(os.Stderr, cfg.Logging.Debug)),
		db.WithMaxBufferSize(cfg.Engine.MaxBufferSize),
	}
	if cfg.Server.Name != "" {
		opts = append(opts, db.WithServer(cfg.Server.Name))
	}
	if cfg.Metrics.Enabled {
		collector := vm.New(vm.WithPrefix(cfg.Metrics.Prefix))
		serveMetrics(cfg.Metrics, collector)
		opts = append(opts, db.WithMetrics(collector))
	}
	return opts
}

func serveMetrics(cfg config.MetricsConfig, collector *vm.Collector) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", collector.Handler)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: cfg.Timeout,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server: %v", err)
		}
	}()
}

func printBanner() {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("ifxsql v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for "  " margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║   Embedded SQL client for Informix    ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (cli *CLI) printf(format string, args ...any) {
	fmt.Fprintf(cli.out, format, args...)
}

func (cli *CLI) errorf(format string, args ...any) {
	cli.printf("%s✗ "+format+"%s\n", append(append([]any{ErrorColor}, args...), ResetColor)...)
}

func (cli *CLI) successf(format string, args ...any) {
	cli.printf("%s✓ "+format+"%s\n", append(append([]any{SuccessColor}, args...), ResetColor)...)
}

func (cli *CLI) run() {
	reader := bufio.NewReader(os.Stdin)
	var multiLineBuffer strings.Builder

	for {
		// Show prompt
		prompt := cli.getPrompt(multiLineBuffer.Len() > 0)
		fmt.Print(prompt)

		// Read input
		input, err := reader.ReadString('\n')
		if err != nil {
			cli.saveHistory()
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}

		input = strings.TrimSuffix(input, "\n")
		input = strings.TrimSuffix(input, "\r")

		// Handle empty input
		if strings.TrimSpace(input) == "" {
			continue
		}

		// Check for special commands (only when not in multi-line mode)
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if !cli.handleCommand(input) {
				cli.saveHistory()
				return
			}
			continue
		}

		// Multi-line support: accumulate until we see a semicolon
		multiLineBuffer.WriteString(input)

		// Check if the statement is complete (ends with ;)
		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString(" ")
			continue
		}

		// Execute the complete statement
		sql := strings.TrimSuffix(trimmed, ";")
		multiLineBuffer.Reset()

		if strings.TrimSpace(sql) == "" {
			continue
		}

		cli.addToHistory(sql + ";")
		cli.execute(sql)
	}
}

// execute runs one statement and prints its result.
func (cli *CLI) execute(sql string) {
	if cli.conn == nil {
		cli.errorf("Not connected (use .connect <database>)")
		return
	}
	report, err := db.Run(cli.conn, sql)
	if err != nil {
		cli.errorf("Error: %v", err)
		return
	}
	report.Display(cli.out)
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor)
	}

	dbPart := ""
	if cli.database != "" {
		dbPart = fmt.Sprintf(" (%s)", cli.database)
	}

	return fmt.Sprintf("%sifxsql%s>%s ", PromptColor, dbPart, ResetColor)
}

// connect replaces the current connection with one to database.
func (cli *CLI) connect(database string) error {
	var opts []db.ConnectOption
	if cli.cfg != nil && cli.cfg.Server.User != "" {
		opts = append(opts, db.WithCredentials(cli.cfg.Server.User, cli.cfg.Server.Password))
	}
	conn, err := cli.env.Connect(database, opts...)
	if err != nil {
		return err
	}
	if cli.conn != nil {
		_ = cli.conn.Close()
	}
	cli.conn = conn
	cli.database = database
	return nil
}

// handleCommand runs a dot command. It returns false when the CLI should
// exit.
func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case ".quit", ".exit", ".q":
		cli.printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		return false

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".connect", ".use":
		if len(parts) < 2 {
			cli.errorf("Usage: %s <database>", cmd)
			break
		}
		if err := cli.connect(parts[1]); err != nil {
			cli.errorf("Error: %v", err)
			break
		}
		cli.successf("Connected to database: %s", cli.database)

	case ".connections":
		cli.showConnections()

	case ".tables":
		cli.execute("SHOW TABLES")

	case ".describe":
		if len(parts) < 2 {
			cli.errorf("Usage: .describe <table>")
			break
		}
		cli.execute("DESCRIBE " + parts[1])

	case ".begin", ".commit", ".rollback":
		cli.transaction(cmd)

	case ".autocommit":
		cli.autoCommit(parts[1:])

	case ".result":
		cli.showResult()

	case ".clear", ".cls":
		cli.printf("\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		cli.printf("ifxsql version %s\n", Version)

	case ".import":
		if len(parts) < 2 {
			cli.errorf("Usage: .import <file.sql|url|git+repo#path>")
			break
		}
		if err := cli.importFile(parts[1]); err != nil {
			cli.errorf("Error: %v", err)
		}

	case ".export":
		if len(parts) < 3 {
			cli.errorf("Usage: .export <file.csv|s3://bucket/key> <SELECT ...>")
			break
		}
		sql := strings.TrimSuffix(strings.TrimSpace(strings.Join(parts[2:], " ")), ";")
		if err := cli.export(parts[1], sql); err != nil {
			cli.errorf("Error: %v", err)
		}

	default:
		cli.errorf("Unknown command: %s (type .help for commands)", parts[0])
	}

	return true
}

func (cli *CLI) printHelp() {
	cli.printf("\n%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	cli.printf("  .help, .h              Show this help message\n")
	cli.printf("  .quit, .exit           Exit the CLI\n")
	cli.printf("  .connect <db>          Connect to a database (closes the current connection)\n")
	cli.printf("  .connections           List open connections\n")
	cli.printf("  .tables                List tables in the current database\n")
	cli.printf("  .describe <table>      Show the columns of a table\n")
	cli.printf("  .begin                 Begin a transaction\n")
	cli.printf("  .commit, .rollback     End the current transaction\n")
	cli.printf("  .autocommit [on|off]   Show or switch auto-commit mode\n")
	cli.printf("  .result                Show the diagnostics of the last statement\n")
	cli.printf("  .import <source>       Run a script from a file, URL, s3:// or git+<repo>#<path>[@branch]\n")
	cli.printf("  .export <dest> <sql>   Write query results as CSV to a file or s3:// URL\n")
	cli.printf("  .history               Show command history\n")
	cli.printf("  .clear                 Clear the screen\n")
	cli.printf("  .version               Show version info\n")
	cli.printf("\nStatements end with ';' and may span several lines.\n\n")
}

func (cli *CLI) showConnections() {
	table := db.NewTable(cli.out)
	table.Header([]string{"id", "database", "created", "last used", "last statement"})
	cli.env.ListConnections(func(s *db.ConnState) bool {
		table.Row([]string{
			s.ID,
			s.Database,
			s.CreatedTime.Format(time.DateTime),
			s.LatestTime.Format(time.DateTime),
			truncate(s.LatestSQL, 40),
		})
		return true
	})
	table.Render()
}

func (cli *CLI) transaction(cmd string) {
	if cli.conn == nil {
		cli.errorf("Not connected (use .connect <database>)")
		return
	}
	var err error
	switch cmd {
	case ".begin":
		err = cli.conn.Begin()
	case ".commit":
		err = cli.conn.Commit()
	case ".rollback":
		err = cli.conn.Rollback()
	}
	if err != nil {
		cli.errorf("Error: %v", err)
		return
	}
	cli.successf("%s", strings.ToUpper(cmd[1:]))
}

func (cli *CLI) autoCommit(args []string) {
	if cli.conn == nil {
		cli.errorf("Not connected (use .connect <database>)")
		return
	}
	if len(args) == 0 {
		on, err := cli.conn.AutoCommit()
		if err != nil {
			cli.errorf("Error: %v", err)
			return
		}
		cli.printf("autocommit is %s\n", onOff(on))
		return
	}

	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		on = true
	case "off", "false", "0":
	default:
		cli.errorf("Usage: .autocommit [on|off]")
		return
	}
	if err := cli.conn.SetAutoCommit(on); err != nil {
		cli.errorf("Error: %v", err)
		return
	}
	cli.successf("autocommit %s", onOff(on))
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (cli *CLI) showResult() {
	if cli.conn == nil {
		cli.errorf("Not connected (use .connect <database>)")
		return
	}
	rec, err := cli.conn.Result()
	if err != nil {
		cli.errorf("Error: %v", err)
		return
	}
	table := db.NewTable(cli.out)
	table.Header([]string{"code", "isam", "rows", "message"})
	table.Values([]any{rec.Code, rec.ISAM, rec.Rows, rec.ErrMsg})
	table.Render()
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	// Limit history size
	if len(cli.history) > 1000 {
		cli.history = cli.history[len(cli.history)-1000:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		cli.printf("No command history\n")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		cli.printf("  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ifxsql_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	// Save last 1000 entries
	start := 0
	if len(cli.history) > 1000 {
		start = len(cli.history) - 1000
	}

	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}

func (cli *CLI) scriptOptions() script.Options {
	if cli.cfg == nil {
		return script.Options{}
	}
	return script.Options{S3: cli.cfg.S3, Git: cli.cfg.Git}
}

// importFile loads a script and executes its statements, reporting each one
func (cli *CLI) importFile(source string) error {
	if cli.conn == nil {
		return errors.New("not connected")
	}
	text, err := script.Load(context.Background(), source, cli.scriptOptions())
	if err != nil {
		return err
	}

	summary, _ := script.Run(cli.conn, text, script.RunOptions{
		ContinueOnError: true,
		OnStep: func(step script.Step) {
			stmt := truncate(step.SQL, 50)
			if step.Err != nil {
				cli.printf("%s[%d] ✗ %s%s\n", ErrorColor, step.Index, stmt, ResetColor)
				cli.printf("      Error: %v\n", step.Err)
				return
			}
			switch r := step.Report.(type) {
			case db.ExecResult:
				cli.printf("%s[%d] ✓ %s (%d rows affected)%s\n", SuccessColor, step.Index, stmt, r.RowsAffected, ResetColor)
			case db.QueryResult:
				cli.printf("%s[%d] ✓ %s (%d rows)%s\n", SuccessColor, step.Index, stmt, r.RecordsRead, ResetColor)
			default:
				cli.printf("%s[%d] ✓ %s%s\n", SuccessColor, step.Index, stmt, ResetColor)
			}
		},
	})
	if errors.Is(err, script.ErrEmptyScript) {
		return err
	}

	cli.printf("\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, len(summary.Steps)-summary.Failed, summary.Failed, ResetColor)
	return nil
}

// export runs a query and writes its rows as CSV to dest
func (cli *CLI) export(dest, sql string) error {
	if cli.conn == nil {
		return errors.New("not connected")
	}
	cur, err := cli.conn.Query(sql)
	if err != nil {
		return err
	}
	defer func() {
		if err := cur.Close(); err != nil && !errors.Is(err, db.ErrAlreadyClosed) {
			cli.errorf("Error: %v", err)
		}
	}()

	var s3cfg *remote.S3Config
	if cli.cfg != nil {
		s3cfg = cli.cfg.S3
	}
	w, err := remote.OpenWriter(context.Background(), dest, s3cfg)
	if err != nil {
		return err
	}
	n, err := db.ExportCSV(cur, w, true)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	cli.successf("Exported %d rows to %s", n, dest)
	return nil
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
