// Command storefront is a terminal client for the farm shop. It keeps its
// session and cart under a local state directory and talks to the backend
// API with the session's bearer token.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/example/okeetropics/internal/kvstore"
	"github.com/example/okeetropics/internal/storefront"
)

const usage = `usage: storefront <command> [flags]

commands:
  login      -email -password    sign in
  logout                         sign out
  register   -name -email ...    create an account
  whoami                         show the current session
  menu                           show navigation for the current role
  articles                       list farm articles
  article    <id>                read one article
  products                       list the produce catalog
  cart                           show the cart
  cart add   <product-id> <qty>  add produce to the cart
  cart set   <product-id> <qty>  change a line's quantity
  cart rm    <product-id>        remove a line
  cart clear                     empty the cart
  checkout                       place an order from the cart
  orders                         list your orders
  order      <id>                show one order
`

type app struct {
	client  *storefront.Client
	session *storefront.SessionStore
	cart    *storefront.CartStore
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	v := viper.New()
	v.SetDefault("api_url", "http://localhost:8080")
	home, _ := os.UserHomeDir()
	v.SetDefault("state_dir", filepath.Join(home, ".okeetropics"))
	v.SetEnvPrefix("okeetropics")
	v.AutomaticEnv()
	v.SetConfigName("config")
	v.AddConfigPath(v.GetString("state_dir"))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn().Err(err).Msg("config file unreadable, using defaults")
		}
	}

	storage, err := kvstore.NewFile(v.GetString("state_dir"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open state dir: %v\n", err)
		os.Exit(1)
	}

	client := storefront.NewClient(v.GetString("api_url"))
	session := storefront.NewSessionStore(client, storage)
	client.SetTokenSource(session)
	cart := storefront.NewCartStore(storage)

	a := &app{client: client, session: session, cart: cart}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		fmt.Printf("signed out, returning to %s\n", a.session.Logout())
		return nil
	case "register":
		return a.register(ctx, args)
	case "whoami":
		return a.whoami()
	case "menu":
		return a.menu()
	case "articles":
		return a.articles(ctx)
	case "article":
		return a.article(ctx, args)
	case "products":
		return a.products(ctx)
	case "cart":
		return a.cartCommand(ctx, args)
	case "checkout":
		return a.checkout(ctx)
	case "orders":
		return a.orders(ctx)
	case "order":
		return a.order(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// guard restores the session and runs the route guard for the page the
// command corresponds to. It returns false when the command must not run.
func (a *app) guard(path string) bool {
	if redirect := a.session.Restore(path); redirect != "" {
		fmt.Printf("please sign in first (login page: %s)\n", redirect)
		return false
	}

	var identity *storefront.Identity
	if current, ok := a.session.Current(); ok {
		identity = &current
	}

	switch decision := storefront.Evaluate(path, identity); decision.Action {
	case storefront.RedirectToLogin:
		fmt.Printf("please sign in first (login page: %s)\n", decision.RedirectTo)
		return false
	case storefront.DenyInPlace:
		fmt.Println("access denied: your account role cannot view this page")
		return false
	}
	return true
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	redirect := fs.String("redirect", "", "page to return to after login")
	fs.Parse(args)

	landing, err := a.session.Login(ctx, *email, *password, *redirect)
	if err != nil {
		return err
	}

	identity, _ := a.session.Current()
	fmt.Printf("signed in as %s (%s), continuing to %s\n", identity.Name, identity.Role, landing)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	reg := storefront.Registration{}
	fs.StringVar(&reg.Name, "name", "", "full name")
	fs.StringVar(&reg.Email, "email", "", "email address")
	fs.StringVar(&reg.Password, "password", "", "password")
	fs.StringVar(&reg.Phone, "phone", "", "phone number")
	fs.StringVar(&reg.Address.Street, "street", "", "street address")
	fs.StringVar(&reg.Address.City, "city", "", "city")
	fs.StringVar(&reg.Address.State, "state", "", "state or province")
	fs.StringVar(&reg.Address.ZipCode, "zip", "", "postal code")
	fs.StringVar(&reg.Address.Country, "country", "", "country")
	fs.StringVar(&reg.CardNumber, "card", "", "card number")
	fs.StringVar(&reg.CardHolder, "holder", "", "card holder name")
	fs.StringVar(&reg.ExpiryDate, "expiry", "", "card expiry MM/YY")
	fs.StringVar(&reg.CVV, "cvv", "", "card verification code")
	fs.Parse(args)

	landing, err := a.session.Register(ctx, reg)
	if err != nil {
		return err
	}

	fmt.Printf("account created, continuing to %s\n", landing)
	return nil
}

func (a *app) whoami() error {
	a.session.Restore(storefront.PathHome)

	identity, ok := a.session.Current()
	if !ok {
		fmt.Println("not signed in")
		return nil
	}

	fmt.Printf("%s <%s> role=%s\n", identity.Name, identity.Email, identity.Role)
	return nil
}

func (a *app) menu() error {
	a.session.Restore(storefront.PathHome)

	var identity *storefront.Identity
	if current, ok := a.session.Current(); ok {
		identity = &current
	}

	for _, item := range storefront.Menu(identity) {
		fmt.Printf("%-16s %s\n", item.Label, item.Path)
	}
	if storefront.ShowCart(identity) {
		fmt.Printf("%-16s %d item(s), total %.2f\n", "Cart", a.cart.Len(), a.cart.Total())
	}
	return nil
}

func (a *app) articles(ctx context.Context) error {
	articles, err := a.client.ListArticles(ctx)
	if err != nil {
		return err
	}

	for _, article := range articles {
		fmt.Printf("%s  [%s] %s by %s\n", article.ID, article.Status, article.Title, article.Author)
	}
	return nil
}

func (a *app) article(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: storefront article <id>")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid article id")
	}

	article, err := a.client.GetArticle(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s\nby %s\n\n%s\n", article.Title, article.Author, article.Content)
	return nil
}

func (a *app) products(ctx context.Context) error {
	products, err := a.client.ListProducts(ctx)
	if err != nil {
		return err
	}

	for _, product := range products {
		fmt.Printf("%s  %-24s %8.2f / %s\n", product.ID, product.Name, product.Price, product.Unit)
	}
	return nil
}

func (a *app) cartCommand(ctx context.Context, args []string) error {
	a.session.Restore(storefront.PathHome)

	if identity, ok := a.session.Current(); ok {
		if !storefront.ShowCart(&identity) {
			fmt.Println("carts are for customers; admin accounts do not shop")
			return nil
		}
	}

	if len(args) == 0 {
		return a.showCart()
	}

	switch args[0] {
	case "list":
		return a.showCart()
	case "add":
		if len(args) != 3 {
			return fmt.Errorf("usage: storefront cart add <product-id> <qty>")
		}
		return a.cartAdd(ctx, args[1], args[2])
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: storefront cart set <product-id> <qty>")
		}
		return a.cartSet(args[1], args[2])
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: storefront cart rm <product-id>")
		}
		id, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid product id")
		}
		return a.cart.RemoveItem(id)
	case "clear":
		return a.cart.Clear()
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *app) showCart() error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%s  %-24s x%-3d %8.2f\n", item.ProductID, item.Name, item.Quantity, item.UnitPrice*float64(item.Quantity))
	}
	fmt.Printf("total: %.2f\n", a.cart.Total())
	return nil
}

func (a *app) cartAdd(ctx context.Context, rawID, rawQty string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid product id")
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return storefront.ErrInvalidQuantity
	}

	product, err := a.client.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := a.cart.AddItem(product, qty); err != nil {
		return err
	}
	fmt.Printf("added %d x %s, cart total %.2f\n", qty, product.Name, a.cart.Total())
	return nil
}

func (a *app) cartSet(rawID, rawQty string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid product id")
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return storefront.ErrInvalidQuantity
	}

	if err := a.cart.UpdateQuantity(id, qty); err != nil {
		return err
	}
	fmt.Printf("cart total %.2f\n", a.cart.Total())
	return nil
}

func (a *app) checkout(ctx context.Context) error {
	if !a.guard(storefront.PathCheckout) {
		return nil
	}

	items := a.cart.Items()
	if len(items) == 0 {
		return fmt.Errorf("cart is empty")
	}

	identity, _ := a.session.Current()
	order, err := a.client.CreateOrder(ctx, items, identity.Address, "")
	if err != nil {
		return err
	}

	fmt.Printf("order %s placed, total %.2f %s\n", order.OrderNumber, order.TotalAmount, order.Currency)
	fmt.Println("run `storefront cart clear` to empty the cart")
	return nil
}

func (a *app) orders(ctx context.Context) error {
	if !a.guard(storefront.PathOrders) {
		return nil
	}

	orders, err := a.client.MyOrders(ctx)
	if err != nil {
		return err
	}

	for _, order := range orders {
		fmt.Printf("%s  %s  %-10s %8.2f %s\n", order.ID, order.OrderNumber, order.Status, order.TotalAmount, order.Currency)
	}
	return nil
}

func (a *app) order(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: storefront order <id>")
	}
	if !a.guard(storefront.PathOrders) {
		return nil
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid order id")
	}

	order, err := a.client.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("order %s  status=%s placed=%s\n", order.OrderNumber, order.Status, order.PlacedAt.Format(time.RFC3339))
	for _, item := range order.Items {
		fmt.Printf("  %-24s x%-3d %8.2f\n", item.ProductName, item.Quantity, item.LineTotal)
	}
	fmt.Printf("total: %.2f %s\n", order.TotalAmount, order.Currency)
	return nil
}
