package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Falloutization/royalty/internal/config"
	"github.com/Falloutization/royalty/internal/landing"
	"github.com/Falloutization/royalty/internal/shipjob"
	"github.com/Falloutization/royalty/internal/shuttle"
	"github.com/Falloutization/royalty/internal/slate"
	"github.com/Falloutization/royalty/internal/storage"
	"github.com/Falloutization/royalty/internal/storage/export"
	"github.com/Falloutization/royalty/internal/worldmap"
	"github.com/Falloutization/royalty/pkg/core"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "royalty_ext",
	Short: "Replay Falloutization: Royalty hooks outside the game",
	Long: `royalty_ext runs the ship job reconstructor, the faction shuttle
generator and the large-ship landing spot hook against scenario and map
files, journaling every decision.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ConfigDir = viper.GetString("configDir")
		return setup()
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Replay a quest scenario through the hooks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return simulate(args[0])
	},
}

var landingCmd = &cobra.Command{
	Use:   "landing <map.yaml>",
	Short: "Pick a landing spot for the large ship",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return queryLanding(args[0], nil)
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal <questID|all>",
	Short: "Print journaled hook decisions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		return printJournal(args[0], out)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config-dir", "c", ".", "directory containing "+config.ConfigFileName)
	_ = viper.BindPFlag("configDir", rootCmd.PersistentFlags().Lookup("config-dir"))
	_ = viper.BindEnv("configDir", "ROYALTY_CONFIG_DIR")

	journalCmd.Flags().StringP("out", "o", "", "write the journal to a zstd-compressed JSON lines file instead of stdout")

	rootCmd.AddCommand(simulateCmd, landingCmd, journalCmd)
}

func main() {
	err := rootCmd.Execute()
	if SlogManager != nil {
		if err != nil {
			Logger.Error("Command failed", "error", err)
		}
		shutdown()
	}
	if err != nil {
		os.Exit(1)
	}
}

func simulate(path string) error {
	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}
	q, err := sc.BuildQuest(Catalog)
	if err != nil {
		return err
	}
	Logger.Info("Simulating quest", "quest", q.ID, "name", q.Name, "steps", len(q.Steps))

	if sc.Shuttle != nil {
		if err := simulateShuttle(q, sc.Shuttle); err != nil {
			return err
		}
	}

	for _, tag := range sc.Signals {
		sig := core.Signal{Tag: tag}
		for _, st := range q.Steps {
			job, ok := st.(*core.ShipJobStep)
			if !ok || job.InSignal != tag {
				continue
			}
			result, err := handlerService.Call(eventDispatcher, shipjob.Hook, q.ID, &shipjob.SignalCall{Quest: q, Step: job, Signal: sig})
			printResult(fmt.Sprintf("%s %s", tag, job.Job), result.Value(), err)
		}
	}

	for i, st := range q.Steps {
		if job, ok := st.(*core.ShipJobStep); ok {
			ship := "-"
			if job.Ship != nil && job.Ship.ShipThing != nil {
				ship = job.Ship.ShipThing.ID
			}
			fmt.Printf("step %d %-12s ship=%s\n", i, job.Job, ship)
		}
	}

	if sc.Map != "" {
		return queryLanding(sc.Map, q)
	}
	return nil
}

func simulateShuttle(q *core.Quest, spec *ShuttleSpec) error {
	s := slate.FromMap(spec.Slate)
	if len(q.InvolvedFactions) > 0 {
		s.Set("asker", q.InvolvedFactions[0])
	}

	node := &core.GenerateShuttleNode{
		OwningFaction:        "asker",
		RequiredPawns:        "requiredPawns",
		AcceptColonists:      "acceptColonists",
		AcceptChildren:       "acceptChildren",
		OnlyAcceptColonists:  "onlyAcceptColonists",
		OnlyAcceptHealthy:    "onlyAcceptHealthy",
		RequireColonistCount: "requireColonistCount",
		PermitShuttle:        "permitShuttle",
		MinAge:               "minAge",
		OverrideMass:         "overrideMass",
		StoreAs:              "pickupShipThing",
	}
	result, err := handlerService.Call(eventDispatcher, shuttle.GenerateShuttleHook, q.ID, &shuttle.ShuttleCall{Node: node, Slate: s})
	printResult("generate shuttle", result.Value(), err)

	def, ok := Catalog.TransportShipDef(config.GetHooksConfig().DefaultTransportShipDef)
	if !ok {
		return fmt.Errorf("default transport ship def %q not in catalog", config.GetHooksConfig().DefaultTransportShipDef)
	}
	tsNode := &core.GenerateTransportShipNode{Def: def, ShipThing: "pickupShipThing", StoreAs: "pickupShip"}
	_, err = handlerService.Call(eventDispatcher, shuttle.GenerateTransportShipHook, q.ID, &shuttle.TransportShipCall{Node: tsNode, Slate: s})
	printResult("generate transport ship", tsNode.Def.Name, err)
	return nil
}

func queryLanding(path string, q *core.Quest) error {
	m, err := worldmap.Load(path, uint64(config.GetLandingConfig().Seed))
	if err != nil {
		return err
	}

	query := &landing.Query{Grid: m}
	questID := 0
	if q != nil {
		questID = q.ID
		if len(q.InvolvedFactions) > 0 {
			query.Faction = q.InvolvedFactions[0]
		}
	}

	result, err := handlerService.Call(eventDispatcher, landing.Hook, questID, query)
	if err != nil {
		return err
	}
	if !result.Overridden() {
		fmt.Printf("%s: host default landing spot\n", m.Name)
		return nil
	}
	spot := result.Value().(landing.Spot)
	fmt.Printf("%s: landing at %s", m.Name, spot)
	if spot.Blocking != nil {
		fmt.Printf(" (blocked by %s)", spot.Blocking.ID)
	}
	fmt.Println()
	return nil
}

func printJournal(arg, outPath string) error {
	questID := storage.AllQuests
	if strings.ToLower(arg) != "all" {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid quest id %q: %w", arg, err)
		}
		questID = id
	}

	entries, err := storageBackend.Interventions(questID)
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := export.WriteFile(outPath, entries); err != nil {
			return fmt.Errorf("failed to export journal: %w", err)
		}
		Logger.Info("Journal exported", "path", outPath, "entries", len(entries))
		return nil
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printResult(label string, v any, err error) {
	switch {
	case err != nil:
		fmt.Printf("%-24s declined: %v\n", label, err)
	case v == nil:
		fmt.Printf("%-24s deferred\n", label)
	default:
		fmt.Printf("%-24s %v\n", label, describe(v))
	}
}

func describe(v any) string {
	switch x := v.(type) {
	case *core.TransportShip:
		return fmt.Sprintf("ship %s (%s), started=%t", x.ShipThing.ID, x.Def.Name, x.Started)
	case *core.Thing:
		return fmt.Sprintf("thing %s", x.ID)
	default:
		return fmt.Sprint(v)
	}
}
