package main

import (
	"fmt"
	"strings"
	"time"

	"fleet-go/internal/app"
	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
	"fleet-go/internal/rodizio"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// printVerdict warns about a trip that breaks the rodízio rule.
func printVerdict(v rodizio.Verdict) {
	if v.Blocked() {
		fmt.Printf("Warning: %s is %s and the trip enters %s on %s.\n",
			v.Plate, v.Label, v.City, v.Date.Format(dateLayout))
	}
}

// routeFlags registers the flags shared by every command that edits a route.
func routeFlags(f *pflag.FlagSet) {
	f.String("origin", "", "Starting point")
	f.String("destination", "", "Destination address")
	f.StringSlice("waypoint", nil, "Intermediate stop (repeatable)")
	f.String("city", "", "Destination city")
	f.String("state", "", "Destination state")
	f.String("arrival", "", "Planned arrival, YYYY-MM-DD [HH:MM]")
}

// trip command
var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Manage trips",
}

var tripListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active trips",
	RunE: func(cmd *cobra.Command, args []string) error {
		completed, _ := cmd.Flags().GetBool("completed")

		a, err := newApp("TripList")
		if err != nil {
			return err
		}
		defer a.Close()

		trips := a.ActiveTrips()
		if completed {
			trips = a.CompletedTrips()
		}
		if len(trips) == 0 {
			fmt.Println("No trips.")
			return nil
		}

		for _, t := range trips {
			route := t.Origin + " -> " + t.Destination
			if len(t.Waypoints) > 0 {
				route = t.Origin + " -> " + strings.Join(t.Waypoints, " -> ") + " -> " + t.Destination
			}
			if t.Active() {
				fmt.Printf("%s  %s  %s  since %s  from %d km  %s\n",
					t.ID, t.VehicleID, t.DriverID, t.StartTime.Format(dateTimeLayout), t.StartKm, route)
				continue
			}
			fmt.Printf("%s  %s  %s  %s  %5d km  R$ %8.2f  %s\n",
				t.ID, t.VehicleID, t.DriverID, t.EndTime.Format(dateTimeLayout), t.Distance,
				t.FuelExpense+t.OtherExpense, route)
		}
		return nil
	},
}

var tripStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a trip as the logged-in driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		req := app.TripStart{}
		req.VehicleID, _ = flags.GetString("vehicle")
		req.ScheduledTripID, _ = flags.GetString("scheduled")
		req.Origin, _ = flags.GetString("origin")
		req.Destination, _ = flags.GetString("destination")
		req.Waypoints, _ = flags.GetStringSlice("waypoint")
		req.City, _ = flags.GetString("city")
		req.State, _ = flags.GetString("state")
		req.FuelLevel, _ = flags.GetInt("fuel")
		req.OilChecked, _ = flags.GetBool("oil")
		req.WaterChecked, _ = flags.GetBool("water")
		req.TiresChecked, _ = flags.GetBool("tires")
		req.Comments, _ = flags.GetString("comments")
		if flags.Changed("km") {
			km, _ := flags.GetInt("km")
			req.Km = &km
		}

		a, err := newApp("TripStart")
		if err != nil {
			return err
		}
		defer a.Close()

		trip, verdict, err := a.StartTrip(req)
		printVerdict(verdict)
		if err != nil {
			return err
		}

		fmt.Printf("Trip %s started at %d km.\n", trip.ID, trip.StartKm)
		return nil
	},
}

var tripEndCmd = &cobra.Command{
	Use:   "end ID",
	Short: "Complete an active trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		km, _ := cmd.Flags().GetInt("km")
		var exp model.Expenses
		exp.FuelExpense, _ = cmd.Flags().GetFloat64("fuel-expense")
		exp.OtherExpense, _ = cmd.Flags().GetFloat64("other-expense")
		exp.Notes, _ = cmd.Flags().GetString("notes")

		a, err := newApp("TripEnd")
		if err != nil {
			return err
		}
		defer a.Close()

		trip, err := a.EndTrip(args[0], km, &exp)
		if err != nil {
			return err
		}

		fmt.Printf("Trip %s completed: %d km in %s.\n", trip.ID, trip.Distance, trip.EndTime.Sub(trip.StartTime).Round(time.Minute))
		return nil
	},
}

var tripCancelCmd = &cobra.Command{
	Use:   "cancel ID",
	Short: "Cancel an active trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("TripCancel")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CancelTrip(args[0]); err != nil {
			return err
		}
		fmt.Println("Trip cancelled.")
		return nil
	},
}

var tripUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit the route of an active trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var up fleet.TripUpdate
		flags := cmd.Flags()
		for flag, field := range map[string]**string{
			"origin":      &up.Origin,
			"destination": &up.Destination,
			"city":        &up.City,
			"state":       &up.State,
		} {
			if flags.Changed(flag) {
				s, _ := flags.GetString(flag)
				*field = &s
			}
		}
		if flags.Changed("waypoint") {
			w, _ := flags.GetStringSlice("waypoint")
			up.Waypoints = &w
		}
		if flags.Changed("arrival") {
			s, _ := flags.GetString("arrival")
			t, err := parseDate(s)
			if err != nil {
				return err
			}
			up.PlannedArrival = &t
		}

		a, err := newApp("TripUpdate")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UpdateTrip(args[0], up); err != nil {
			return err
		}
		fmt.Println("Trip updated.")
		return nil
	},
}

var tripChecklistsCmd = &cobra.Command{
	Use:   "checklists",
	Short: "List pre-trip checklists",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ChecklistList")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, c := range a.Checklists() {
			fmt.Printf("%s  %s  %s  %7d km  fuel %3d%%  oil:%t water:%t tires:%t  %s\n",
				c.ID, c.VehicleID, c.Timestamp.Format(dateTimeLayout), c.Km, c.FuelLevel,
				c.OilChecked, c.WaterChecked, c.TiresChecked, c.Comments)
		}
		return nil
	},
}

// schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage scheduled trips",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled trips",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ScheduleList")
		if err != nil {
			return err
		}
		defer a.Close()

		trips := a.ScheduledTrips()
		if len(trips) == 0 {
			fmt.Println("No scheduled trips.")
			return nil
		}
		for _, t := range trips {
			fmt.Printf("%s  %s  %s  %s  %s -> %s  %s\n",
				t.ID, t.ScheduledDate.Format(dateTimeLayout), t.VehicleID, t.DriverID, t.Origin, t.Destination, t.Notes)
		}
		return nil
	},
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Plan a trip",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var st model.ScheduledTrip
		st.VehicleID, _ = flags.GetString("vehicle")
		st.DriverID, _ = flags.GetString("driver")
		st.Origin, _ = flags.GetString("origin")
		st.Destination, _ = flags.GetString("destination")
		st.Waypoints, _ = flags.GetStringSlice("waypoint")
		st.City, _ = flags.GetString("city")
		st.State, _ = flags.GetString("state")
		st.ZipCode, _ = flags.GetString("zip")
		st.Notes, _ = flags.GetString("notes")

		date, _ := flags.GetString("date")
		t, err := parseDate(date)
		if err != nil {
			return err
		}
		st.ScheduledDate = t
		if arrival, _ := flags.GetString("arrival"); arrival != "" {
			at, err := parseDate(arrival)
			if err != nil {
				return err
			}
			st.PlannedArrival = &at
		}

		a, err := newApp("ScheduleAdd")
		if err != nil {
			return err
		}
		defer a.Close()

		added, verdict, err := a.ScheduleTrip(st)
		printVerdict(verdict)
		if err != nil {
			return err
		}
		fmt.Printf("Trip %s scheduled for %s.\n", added.ID, added.ScheduledDate.Format(dateTimeLayout))
		return nil
	},
}

var scheduleUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Edit a scheduled trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var up fleet.ScheduledTripUpdate
		flags := cmd.Flags()
		for flag, field := range map[string]**string{
			"vehicle":     &up.VehicleID,
			"driver":      &up.DriverID,
			"origin":      &up.Origin,
			"destination": &up.Destination,
			"city":        &up.City,
			"state":       &up.State,
			"zip":         &up.ZipCode,
			"notes":       &up.Notes,
		} {
			if flags.Changed(flag) {
				s, _ := flags.GetString(flag)
				*field = &s
			}
		}
		if flags.Changed("waypoint") {
			w, _ := flags.GetStringSlice("waypoint")
			up.Waypoints = &w
		}
		for flag, field := range map[string]**time.Time{
			"date":    &up.ScheduledDate,
			"arrival": &up.PlannedArrival,
		} {
			if flags.Changed(flag) {
				s, _ := flags.GetString(flag)
				t, err := parseDate(s)
				if err != nil {
					return err
				}
				*field = &t
			}
		}

		a, err := newApp("ScheduleUpdate")
		if err != nil {
			return err
		}
		defer a.Close()

		verdict, err := a.UpdateScheduledTrip(args[0], up)
		printVerdict(verdict)
		if err != nil {
			return err
		}
		fmt.Println("Scheduled trip updated.")
		return nil
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Cancel a scheduled trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ScheduleDelete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteScheduledTrip(args[0]); err != nil {
			return err
		}
		fmt.Println("Scheduled trip removed.")
		return nil
	},
}

func init() {
	tripCmd.AddCommand(tripListCmd)
	tripListCmd.Flags().Bool("completed", false, "List completed trips instead")

	tripCmd.AddCommand(tripStartCmd)
	routeFlags(tripStartCmd.Flags())
	tripStartCmd.Flags().String("vehicle", "", "Vehicle ID")
	tripStartCmd.Flags().String("scheduled", "", "Start from a scheduled trip")
	tripStartCmd.Flags().Int("km", 0, "Odometer reading (defaults to the vehicle's)")
	tripStartCmd.Flags().Int("fuel", 0, "Fuel level in percent")
	tripStartCmd.Flags().Bool("oil", false, "Oil checked")
	tripStartCmd.Flags().Bool("water", false, "Water checked")
	tripStartCmd.Flags().Bool("tires", false, "Tires checked")
	tripStartCmd.Flags().String("comments", "", "Checklist comments")

	tripCmd.AddCommand(tripEndCmd)
	tripEndCmd.Flags().Int("km", 0, "Odometer reading at arrival")
	tripEndCmd.MarkFlagRequired("km")
	tripEndCmd.Flags().Float64("fuel-expense", 0, "Fuel expense")
	tripEndCmd.Flags().Float64("other-expense", 0, "Other expenses")
	tripEndCmd.Flags().String("notes", "", "Expense notes")

	tripCmd.AddCommand(tripCancelCmd)
	tripCmd.AddCommand(tripUpdateCmd)
	routeFlags(tripUpdateCmd.Flags())
	tripCmd.AddCommand(tripChecklistsCmd)

	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleUpdateCmd)
	for _, c := range []*cobra.Command{scheduleAddCmd, scheduleUpdateCmd} {
		routeFlags(c.Flags())
		c.Flags().String("vehicle", "", "Vehicle ID")
		c.Flags().String("driver", "", "Driver ID")
		c.Flags().String("zip", "", "Destination zip code")
		c.Flags().String("date", "", "Scheduled date, YYYY-MM-DD [HH:MM]")
		c.Flags().String("notes", "", "Notes")
	}
	scheduleAddCmd.MarkFlagRequired("date")
	scheduleCmd.AddCommand(scheduleDeleteCmd)

	rootCmd.AddCommand(tripCmd)
	rootCmd.AddCommand(scheduleCmd)
}
