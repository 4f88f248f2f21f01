package main

import (
	"fmt"

	"fleet-go/internal/model"

	"github.com/spf13/cobra"
)

// fine command
var fineCmd = &cobra.Command{
	Use:   "fine",
	Short: "Manage traffic fines",
}

var fineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fines",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("FineList")
		if err != nil {
			return err
		}
		defer a.Close()

		fines := a.Fines()
		if len(fines) == 0 {
			fmt.Println("No fines.")
			return nil
		}
		var total float64
		for _, f := range fines {
			total += f.Value
			fmt.Printf("%s  %s  %s  %s  R$ %8.2f  %2d pts  %s\n",
				f.ID, f.Date.Format(dateLayout), f.DriverID, f.VehicleID, f.Value, f.Points, f.Description)
		}
		fmt.Printf("Total: R$ %.2f\n", total)
		return nil
	},
}

var fineAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a fine",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f model.Fine
		f.DriverID, _ = cmd.Flags().GetString("driver")
		f.VehicleID, _ = cmd.Flags().GetString("vehicle")
		f.Value, _ = cmd.Flags().GetFloat64("value")
		f.Points, _ = cmd.Flags().GetInt("points")
		f.Description, _ = cmd.Flags().GetString("description")
		if date, _ := cmd.Flags().GetString("date"); date != "" {
			t, err := parseDate(date)
			if err != nil {
				return err
			}
			f.Date = t
		}

		a, err := newApp("FineAdd")
		if err != nil {
			return err
		}
		defer a.Close()

		added, err := a.AddFine(f)
		if err != nil {
			return err
		}
		fmt.Printf("Fine %s recorded.\n", added.ID)
		return nil
	},
}

var fineDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Remove a fine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("FineDelete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteFine(args[0]); err != nil {
			return err
		}
		fmt.Println("Fine removed.")
		return nil
	},
}

// occurrence command
var occurrenceCmd = &cobra.Command{
	Use:   "occurrence",
	Short: "Report and track incidents",
}

var occurrenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List incidents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("OccurrenceList")
		if err != nil {
			return err
		}
		defer a.Close()

		for _, o := range a.Occurrences() {
			state := "open"
			if o.Resolved {
				state = "resolved"
			}
			fmt.Printf("%s  %s  %-6s  %-8s  trip %s  %s: %s\n",
				o.ID, o.Timestamp.Format(dateTimeLayout), o.Severity, state, o.TripID, o.Type, o.Description)
		}
		return nil
	},
}

var occurrenceReportCmd = &cobra.Command{
	Use:   "report TRIP_ID TYPE DESCRIPTION",
	Short: "Report an incident on an active trip",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		severity, _ := cmd.Flags().GetString("severity")

		a, err := newApp("OccurrenceReport")
		if err != nil {
			return err
		}
		defer a.Close()

		o, err := a.ReportOccurrence(args[0], args[1], args[2], model.Severity(severity))
		if err != nil {
			return err
		}
		fmt.Printf("Occurrence %s reported.\n", o.ID)
		return nil
	},
}

var occurrenceResolveCmd = &cobra.Command{
	Use:   "resolve ID",
	Short: "Mark an incident as resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("OccurrenceResolve")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ResolveOccurrence(args[0]); err != nil {
			return err
		}
		fmt.Println("Occurrence resolved.")
		return nil
	},
}

// notification command
var notificationCmd = &cobra.Command{
	Use:   "notification",
	Short: "Read notifications",
}

var notificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("NotificationList")
		if err != nil {
			return err
		}
		defer a.Close()

		notes, unread := a.Notifications()
		fmt.Printf("%d unread\n", unread)
		for _, n := range notes {
			mark := " "
			if !n.IsRead {
				mark = "*"
			}
			fmt.Printf("%s %s  %s  %s: %s\n", mark, n.ID, n.Timestamp.Format(dateTimeLayout), n.Title, n.Message)
		}
		return nil
	},
}

var notificationReadCmd = &cobra.Command{
	Use:   "read ID",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("NotificationRead")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.MarkNotificationAsRead(args[0])
	},
}

// rodizio command
var rodizioCmd = &cobra.Command{
	Use:   "rodizio PLATE [DESTINATION]",
	Short: "Check the plate rotation rule",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")

		a, err := newApp("Rodizio")
		if err != nil {
			return err
		}
		defer a.Close()

		day := a.Today()
		if date != "" {
			if day, err = parseDate(date); err != nil {
				return err
			}
		}
		place := a.Config().Rules.RegulatedCity
		if len(args) > 1 {
			place = args[1]
		}

		v := a.CheckRestriction(model.NormalizePlate(args[0]), place, day)
		fmt.Printf("%s: %s\n", v.Plate, v.Label)
		switch {
		case v.Blocked():
			fmt.Printf("Restricted in %s on %s.\n", v.City, day.Format(dateLayout))
		case v.Restricted:
			fmt.Printf("Restricted on %s, but %q is outside %s.\n", day.Format(dateLayout), place, v.City)
		default:
			fmt.Printf("Free to circulate on %s.\n", day.Format(dateLayout))
		}
		return nil
	},
}

func init() {
	fineCmd.AddCommand(fineListCmd)
	fineCmd.AddCommand(fineAddCmd)
	fineAddCmd.Flags().String("driver", "", "Driver ID")
	fineAddCmd.Flags().String("vehicle", "", "Vehicle ID")
	fineAddCmd.Flags().Float64("value", 0, "Amount in reais")
	fineAddCmd.Flags().Int("points", 0, "License points")
	fineAddCmd.Flags().String("description", "", "Infraction")
	fineAddCmd.Flags().String("date", "", "Date, YYYY-MM-DD (defaults to today)")
	fineCmd.AddCommand(fineDeleteCmd)

	occurrenceCmd.AddCommand(occurrenceListCmd)
	occurrenceCmd.AddCommand(occurrenceReportCmd)
	occurrenceReportCmd.Flags().String("severity", "", "low, medium or high (default medium)")
	occurrenceCmd.AddCommand(occurrenceResolveCmd)

	notificationCmd.AddCommand(notificationListCmd)
	notificationCmd.AddCommand(notificationReadCmd)

	rootCmd.AddCommand(fineCmd)
	rootCmd.AddCommand(occurrenceCmd)
	rootCmd.AddCommand(notificationCmd)
	rootCmd.AddCommand(rodizioCmd)
	rodizioCmd.Flags().String("date", "", "Day to check, YYYY-MM-DD (defaults to today)")
}
