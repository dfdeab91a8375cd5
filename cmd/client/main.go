// Command client is a terminal frontend for the SpendLog API: it manages a
// persisted session and renders the transaction list with local filtering,
// search and running totals.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/spendlog/spendlog/internal/client"
)

const usage = `usage: client [-server URL] [-state FILE] <command> [args]

commands:
  signup                 create an account and log in
  login                  log in with email and password
  logout                 clear the stored session
  whoami                 show the logged-in user
  list [-filter all|income|expense] [-search text]
                         show transactions with totals
  show <id>              show one transaction
  add -title T -amount N -type income|expense -category C [-desc D] [-date YYYY-MM-DD]
                         create a transaction
  edit <id> [flags]      update the given fields of a transaction
  rm [-y] <id>           delete one transaction
  clear [-y]             delete all transactions
`

func main() {
	serverURL := flag.String("server", envOr("SPENDLOG_SERVER", "http://localhost:8080"), "API base URL")
	statePath := flag.String("state", defaultStatePath(), "session state file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	session, err := client.LoadSession(*statePath)
	if err != nil {
		fatal(err)
	}
	api := client.New(*serverURL, session)
	ctx := context.Background()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "signup":
		err = runSignup(ctx, api)
	case "login":
		err = runLogin(ctx, api)
	case "logout":
		err = api.LogOut()
	case "whoami":
		err = runWhoami(session)
	case "list":
		err = runList(ctx, api, args)
	case "show":
		err = runShow(ctx, api, args)
	case "add":
		err = runAdd(ctx, api, args)
	case "edit":
		err = runEdit(ctx, api, args)
	case "rm":
		err = runRemove(ctx, api, args)
	case "clear":
		err = runClear(ctx, api, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func runSignup(ctx context.Context, api *client.Client) error {
	name, err := promptLine("Name: ")
	if err != nil {
		return err
	}
	email, err := promptLine("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	profile, err := api.SignUp(ctx, name, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("welcome, %s\n", profile.Name)
	return nil
}

func runLogin(ctx context.Context, api *client.Client) error {
	email, err := promptLine("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	profile, err := api.LogIn(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", profile.Email)
	return nil
}

func runWhoami(session *client.Session) error {
	if !session.Authenticated() {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s>\n", session.User.Name, session.User.Email)
	return nil
}

func runList(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	filter := fs.String("filter", "all", "all, income or expense")
	search := fs.String("search", "", "substring match on title and category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := api.ListTransactions(ctx)
	if err != nil {
		return err
	}

	view := client.NewListView(items)
	for _, tx := range view.Visible(client.Filter(*filter), *search) {
		sign := "-"
		if tx.Type == "income" {
			sign = "+"
		}
		fmt.Printf("%s  %s  %s%8s  %-20s %s\n",
			tx.ID, tx.Date.Format("2006-01-02"), sign, tx.Amount.StringFixed(2), tx.Title, tx.Category)
	}

	totals := view.Totals()
	fmt.Printf("\nincome %s  expense %s  balance %s\n",
		totals.Income.StringFixed(2), totals.Expense.StringFixed(2), totals.Balance.StringFixed(2))
	return nil
}

func runShow(ctx context.Context, api *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("show: expected exactly one id")
	}
	tx, err := api.GetTransaction(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("id:          %s\ntitle:       %s\namount:      %s\ntype:        %s\ncategory:    %s\ndescription: %s\ndate:        %s\ncreated:     %s\n",
		tx.ID, tx.Title, tx.Amount.StringFixed(2), tx.Type, tx.Category, tx.Description,
		tx.Date.Format("2006-01-02"), tx.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

func draftFlags(fs *flag.FlagSet) func() client.TransactionDraft {
	title := fs.String("title", "", "transaction title")
	amount := fs.String("amount", "", "positive amount")
	kind := fs.String("type", "", "income or expense")
	category := fs.String("category", "", "category")
	desc := fs.String("desc", "", "optional description")
	date := fs.String("date", "", "YYYY-MM-DD, defaults to today on create")

	return func() client.TransactionDraft {
		var draft client.TransactionDraft
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "title":
				draft.Title = title
			case "amount":
				draft.Amount = amount
			case "type":
				draft.Type = kind
			case "category":
				draft.Category = category
			case "desc":
				draft.Description = desc
			case "date":
				draft.Date = date
			}
		})
		return draft
	}
}

func runAdd(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	draft := draftFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	tx, err := api.CreateTransaction(ctx, draft())
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", tx.ID)
	return nil
}

func runEdit(ctx context.Context, api *client.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("edit: expected an id")
	}
	id, rest := args[0], args[1:]

	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	draft := draftFlags(fs)
	if err := fs.Parse(rest); err != nil {
		return err
	}

	tx, err := api.UpdateTransaction(ctx, id, draft())
	if err != nil {
		return err
	}
	fmt.Printf("updated %s\n", tx.ID)
	return nil
}

func runRemove(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	yes := fs.Bool("y", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("rm: expected exactly one id")
	}
	id := fs.Arg(0)

	if !*yes && !confirm(fmt.Sprintf("delete transaction %s?", id)) {
		fmt.Println("aborted")
		return nil
	}
	if err := api.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

func runClear(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	yes := fs.Bool("y", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes && !confirm("delete ALL transactions?") {
		fmt.Println("aborted")
		return nil
	}
	count, err := api.DeleteAllTransactions(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d transactions deleted\n", count)
	return nil
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func defaultStatePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "spendlog", "session.json")
	}
	return ".spendlog-session.json"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
