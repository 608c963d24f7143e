package gazetteer

import "github.com/relief-analytics/crisis-cli/internal/model"

// SudanTables returns the curated lookup data for Sudan. Verified
// coordinates are sourced from official gazetteers, OpenStreetMap, and
// OCHA COD-AB boundary centroids; state centers back the fallback path.
func SudanTables() Tables {
	return Tables{
		Verified:      sudanVerified(),
		RegionCenters: sudanStateCenters(),
		CountryCenter: model.Point{Lat: 15.5, Lon: 32.5},
	}
}

func sudanVerified() map[string]model.Point {
	return map[string]model.Point{
		// Red Sea
		"Port Sudan":          {Lat: 19.6158, Lon: 37.2164},
		"Sawakin":             {Lat: 19.1067, Lon: 37.3320},
		"Hala'ib":             {Lat: 22.2167, Lon: 36.6333},
		"Jubayt Elma'aadin":   {Lat: 22.0000, Lon: 36.5000},
		"Agig":                {Lat: 18.1768, Lon: 38.2669},
		"Sinkat":              {Lat: 18.8000, Lon: 37.2000},
		"Tawkar":              {Lat: 18.4333, Lon: 37.7333},
		"Dordieb":             {Lat: 17.5471, Lon: 35.7407},
		"Haya":                {Lat: 17.5500, Lon: 38.0000},
		"Al Ganab":            {Lat: 22.5000, Lon: 36.2500},
		// Northern
		"Dongola":    {Lat: 19.1808, Lon: 30.4769},
		"Karima":     {Lat: 18.5500, Lon: 31.8500},
		"Merwoe":     {Lat: 18.5000, Lon: 31.8500},
		"Delgo":      {Lat: 20.4500, Lon: 30.4333},
		"Halfa":      {Lat: 21.8000, Lon: 31.3500},
		"Ad Dabbah":  {Lat: 18.0500, Lon: 30.9667},
		"Al Burgaig": {Lat: 20.5000, Lon: 30.2500},
		"Al Golid":   {Lat: 21.0000, Lon: 30.0000},
		// Khartoum
		"Khartoum":      {Lat: 15.5007, Lon: 32.5599},
		"Bahri":         {Lat: 15.6400, Lon: 32.5300},
		"Um Durman":     {Lat: 15.6444, Lon: 32.4778},
		"Jebel Awlia":   {Lat: 15.2000, Lon: 32.5000},
		"Karrari":       {Lat: 15.7000, Lon: 32.4500},
		"Sharg An Neel": {Lat: 15.6000, Lon: 32.6000},
		"Um Bada":       {Lat: 15.4000, Lon: 32.3500},
		// River Nile
		"Atbara":     {Lat: 17.7019, Lon: 33.9869},
		"Shendi":     {Lat: 16.6922, Lon: 33.4339},
		"Ad Damar":   {Lat: 17.5925, Lon: 33.9706},
		"Barbar":     {Lat: 18.0275, Lon: 33.9819},
		"Abu Hamad":  {Lat: 19.5333, Lon: 33.3167},
		"Al Matama":  {Lat: 17.7167, Lon: 33.7667},
		"Al Buhaira": {Lat: 18.0000, Lon: 33.5000},
		// Kassala
		"Madeinat Kassala":  {Lat: 15.4552, Lon: 36.3997},
		"Halfa Aj Jadeedah": {Lat: 15.3272, Lon: 35.5986},
		// Gedaref
		"Madeinat Al Gedaref":  {Lat: 14.0354, Lon: 35.3839},
		"Galabat Ash-Shargiah": {Lat: 12.9667, Lon: 36.1667},
		"Al Fao":               {Lat: 13.4333, Lon: 35.2333},
		// Darfur
		"Al Fasher":    {Lat: 13.6286, Lon: 25.3497},
		"Nyala Janoub": {Lat: 12.0500, Lon: 24.8833},
		"Nyala Shimal": {Lat: 12.0833, Lon: 24.9000},
		"Ag Geneina":   {Lat: 13.4525, Lon: 22.4503},
		"Zalingi":      {Lat: 12.9097, Lon: 23.4708},
		// Blue Nile
		"Ed Damazine": {Lat: 11.7891, Lon: 34.3592},
		"Ar Rusayris": {Lat: 11.8667, Lon: 34.3833},
		// Sennar
		"Sennar": {Lat: 13.5667, Lon: 33.6167},
		"Sinja":  {Lat: 13.3500, Lon: 33.9333},
		// White Nile
		"Rabak":     {Lat: 13.1833, Lon: 32.7333},
		"Kosti":     {Lat: 13.1667, Lon: 32.6667},
		"Ad Diwaim": {Lat: 14.0000, Lon: 32.3167},
		// Aj Jazirah
		"Medani Al Kubra": {Lat: 14.4008, Lon: 33.5197},
		"Al Hasahisa":     {Lat: 14.6333, Lon: 33.3167},
		"Al Manaqil":      {Lat: 14.2500, Lon: 32.9833},
	}
}

func sudanStateCenters() map[string]model.Point {
	return map[string]model.Point{
		"Khartoum":       {Lat: 15.5, Lon: 32.5},
		"North Darfur":   {Lat: 13.6, Lon: 25.3},
		"South Darfur":   {Lat: 11.7, Lon: 24.9},
		"East Darfur":    {Lat: 11.5, Lon: 26.1},
		"West Darfur":    {Lat: 12.5, Lon: 23.0},
		"Central Darfur": {Lat: 12.8, Lon: 24.3},
		"River Nile":     {Lat: 17.7, Lon: 33.9},
		"Northern":       {Lat: 19.2, Lon: 30.5},
		"Red Sea":        {Lat: 19.6, Lon: 37.2},
		"Kassala":        {Lat: 15.5, Lon: 36.4},
		"Gedaref":        {Lat: 14.0, Lon: 35.4},
		"Sennar":         {Lat: 13.6, Lon: 33.6},
		"Blue Nile":      {Lat: 11.7, Lon: 34.4},
		"White Nile":     {Lat: 13.3, Lon: 32.7},
		"Aj Jazirah":     {Lat: 14.4, Lon: 33.5},
		"North Kordofan": {Lat: 13.6, Lon: 29.4},
		"South Kordofan": {Lat: 11.2, Lon: 29.4},
		"West Kordofan":  {Lat: 11.4, Lon: 27.7},
		"Abyei PCA":      {Lat: 10.0, Lon: 28.4},
	}
}
