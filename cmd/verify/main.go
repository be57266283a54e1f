// Command verify recomputes a box opening offline from revealed seeds.
//
// Usage:
//
//	verify -server-seed <seed> -client-seed <seed> -nonce <n> -box <id> [-hash <published>] [-item <recorded>] [-catalog boxes.json]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/osse101/CaseBattle_Go/configs"
	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/fairness"
	"github.com/osse101/CaseBattle_Go/internal/lootbox"
)

var errMismatch = errors.New("verification failed")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(out)
	serverSeed := fs.String("server-seed", "", "Revealed server seed")
	publishedHash := fs.String("hash", "", "Server seed hash published before the opening (optional)")
	clientSeed := fs.String("client-seed", "", "Client seed used for the opening")
	nonce := fs.Uint64("nonce", 0, "Nonce of the opening")
	boxID := fs.String("box", "", "Box id")
	recordedItem := fs.String("item", "", "Item the service reported (optional)")
	catalogPath := fs.String("catalog", "", "Box catalog file (defaults to the built-in catalog)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *serverSeed == "" || *clientSeed == "" || *boxID == "" {
		fs.Usage()
		return fmt.Errorf("-server-seed, -client-seed and -box are required")
	}

	catalog, err := loadCatalog(*catalogPath)
	if err != nil {
		return err
	}
	box, err := catalog.GetBox(context.Background(), *boxID)
	if err != nil {
		return err
	}

	hash := *publishedHash
	if hash == "" {
		hash = fairness.HashServerSeed(*serverSeed)
	}
	result := domain.OutcomeResult{
		ServerSeedHash: hash,
		ClientSeed:     *clientSeed,
		Nonce:          *nonce,
		WonItemID:      *recordedItem,
	}

	v, err := lootbox.Verify(*serverSeed, result, box.Prizes)
	if err != nil {
		return err
	}

	// The CLI has no recorded random value, so only the item is compared
	match := v.CommitmentValid && v.ExpectedItemID == *recordedItem

	fmt.Fprintf(out, "server seed hash:  %s\n", fairness.HashServerSeed(*serverSeed))
	fmt.Fprintf(out, "commitment valid:  %t\n", v.CommitmentValid)
	fmt.Fprintf(out, "random value:      %.10f\n", v.RandomValue)
	fmt.Fprintf(out, "expected item:     %s\n", v.ExpectedItemID)
	if *recordedItem != "" {
		fmt.Fprintf(out, "recorded item:     %s\n", v.RecordedItemID)
		fmt.Fprintf(out, "match:             %t\n", match)
	}

	if !v.CommitmentValid || (*recordedItem != "" && !match) {
		return errMismatch
	}
	return nil
}

func loadCatalog(path string) (*lootbox.FileCatalog, error) {
	if path == "" {
		return lootbox.ParseCatalog(configs.DefaultBoxes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return lootbox.ParseCatalog(data)
}
